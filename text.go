package main

import (
	"github.com/vempatir/portfolio/internal/projects"
	"github.com/vempatir/portfolio/internal/site"
)

var (
	OwnerName = "Radhakrishna Vempati"

	Intro = `Passionate about creating innovative solutions and bringing ideas to life through code.
	I specialize in building scalable applications and love exploring new technologies
	to solve complex problems.`

	AboutMe = []string{
		`I'm a dedicated software engineer with a passion for creating impactful digital experiences.
		My journey in technology began with curiosity and has evolved into a deep commitment to
		crafting elegant solutions that make a difference.`,
		`With expertise spanning multiple programming languages and frameworks, I enjoy tackling
		challenging problems and turning complex requirements into intuitive, user-friendly applications.
		I believe in continuous learning and staying at the forefront of technological innovation.`,
		`When I'm not coding, you can find me exploring new technologies, contributing to open-source
		projects, or sharing knowledge with the developer community. I'm always excited to collaborate
		on projects that push boundaries and create meaningful impact.`,
	}

	DescriptiveWords = []string{
		"Software Engineer",
		"Full Stack Developer",
		"Problem Solver",
		"Tech Enthusiast",
		"Code Architect",
		"Innovation Driver",
		"Digital Creator",
	}

	// Projects - edit freely, ids must stay unique
	Projects = []projects.Project{
		{
			ID:           1,
			Title:        "E-Commerce Platform",
			Description:  "A full-stack e-commerce solution with React, Node.js, and PostgreSQL. Features include user authentication, payment processing, and admin dashboard.",
			Technologies: []string{"React", "Node.js", "PostgreSQL", "Stripe"},
			GithubLink:   "https://github.com/yourusername/ecommerce",
			LiveLink:     "https://your-ecommerce-demo.com",
			ImageURL:     projects.PlaceholderImage,
		},
		{
			ID:           2,
			Title:        "Task Management App",
			Description:  "A collaborative task management application with real-time updates, team collaboration features, and intuitive drag-and-drop interface.",
			Technologies: []string{"Vue.js", "Firebase", "TypeScript", "Tailwind CSS"},
			GithubLink:   "https://github.com/yourusername/taskmanager",
			LiveLink:     "https://your-taskmanager-demo.com",
			ImageURL:     projects.PlaceholderImage,
		},
		{
			ID:           3,
			Title:        "AI Chat Application",
			Description:  "An intelligent chatbot application integrated with OpenAI's GPT API, featuring conversation history and custom personality settings.",
			Technologies: []string{"React", "OpenAI API", "Express.js", "MongoDB"},
			GithubLink:   "https://github.com/yourusername/ai-chat",
			LiveLink:     "https://your-ai-chat-demo.com",
			ImageURL:     projects.PlaceholderImage,
		},
	}

	ContactEmail        = "vempatir@uci.edu"
	ContactEmailDisplay = "vempatir at uci dot edu"
)

func siteContent() site.Content {
	return site.Content{
		Name:         OwnerName,
		Intro:        Intro,
		About:        AboutMe,
		Labels:       DescriptiveWords,
		Projects:     Projects,
		Email:        ContactEmail,
		EmailDisplay: ContactEmailDisplay,
	}
}
