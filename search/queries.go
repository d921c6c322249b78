package search

import "fmt"

// categoryQueries maps each rotation category to a hand-tuned search query.
// Unmapped categories are a supported path and use the generic fallback.
var categoryQueries = map[string]string{
	"Agentic AI & Autonomous Agents":      "agentic AI autonomous agents multi-agent LangGraph CrewAI AutoGPT news",
	"Generative AI & Diffusion Models":    "generative AI Stable Diffusion DALL-E Midjourney Sora image video generation news",
	"Large Language Models (LLMs)":        "LLM GPT-4 Claude Gemini Llama open source language model releases news",
	"RAG & Vector Databases":              "RAG retrieval augmented generation Pinecone Weaviate vector database news",
	"Fine-tuning & Model Optimization":    "LLM fine-tuning LoRA QLoRA model optimization quantization news",
	"Prompt Engineering & AI Workflows":   "prompt engineering LangChain LlamaIndex AI workflows news",
	"Quantum Computing & Quantum ML":      "quantum computing IBM Quantum Google Sycamore quantum machine learning news",
	"Data Science & Analytics":            "data science analytics machine learning Pandas scikit-learn news",
	"Machine Learning Engineering":        "MLOps machine learning engineering PyTorch TensorFlow deployment news",
	"MLOps & Model Deployment":            "MLOps model deployment Kubeflow MLflow model serving news",
	"Feature Engineering & Data Pipelines": "feature engineering data pipelines Airflow dbt data engineering news",
	"Cloud Computing & Infrastructure":    "AWS Azure GCP cloud infrastructure serverless Kubernetes news",
	"System Design & Architecture":        "system design architecture microservices distributed systems scaling news",
	"Web Development & Frontend":          "React Next.js Vue JavaScript TypeScript frontend web development news",
	"Backend Development & APIs":          "backend API Node.js Python Go REST GraphQL microservices news",
	"DevOps & Platform Engineering":       "DevOps platform engineering CI/CD Terraform infrastructure as code news",
	"Database Systems & Data Modeling":    "database PostgreSQL MongoDB Redis data modeling schema design news",

	"Business Strategy & Competitive Analysis": "business strategy competitive analysis Porter Five Forces market positioning news",
	"Startup Fundamentals & Entrepreneurship":  "startup entrepreneurship lean startup MVP founder news",
	"Venture Capital & Fundraising":            "venture capital fundraising Series A B C startup funding news",
	"Growth Strategy & Scaling":                "growth strategy scaling startup growth hacking news",
	"Product Management & Strategy":            "product management strategy product-led growth roadmap prioritization news",
	"Product-Market Fit & Validation":          "product market fit validation customer discovery startup news",
	"Digital Marketing & Growth Hacking":       "digital marketing growth hacking SEO social media startup news",
	"Customer Acquisition & Retention":         "customer acquisition retention CAC LTV churn startup news",
	"Business Operations & Efficiency":         "business operations efficiency startup operations scaling news",
	"Financial Modeling & Analysis":            "financial modeling analysis startup finance valuation news",
	"Unit Economics & Metrics":                 "unit economics metrics startup KPIs SaaS metrics news",
	"Business Model Innovation":                "business model innovation platform economy subscription news",
	"Leadership & Team Building":               "leadership team building startup culture hiring news",
	"Organizational Design & Culture":          "organizational design culture remote work startup news",
	"Decision Making Frameworks":               "decision making frameworks mental models first principles news",
	"Negotiation & Communication":              "negotiation communication business skills leadership news",
}

// caseStudyQueries bias results toward named companies with public
// implementation details.
var caseStudyQueries = map[string]string{
	"Agentic AI & Autonomous Agents":   "OpenAI GPT agents Anthropic Claude autonomous AI implementation case study",
	"Generative AI & Diffusion Models": "Stability AI Midjourney Adobe Firefly generative AI implementation",
	"Large Language Models (LLMs)":     "OpenAI ChatGPT Anthropic Claude Google Gemini LLM deployment case study",
	"RAG & Vector Databases":           "Pinecone Weaviate company RAG implementation vector search case study",
	"Quantum Computing & Quantum ML":   "IBM Quantum Google Sycamore IonQ quantum computing implementation",
	"Data Science & Analytics":         "Netflix Spotify Airbnb data science machine learning case study",
	"Product Management & Strategy":    "Stripe Notion Figma product management growth case study",
	"Cloud Computing & Infrastructure": "AWS Azure GCP migration case study infrastructure",
	"System Design & Architecture":     "Netflix Uber Airbnb system design architecture scaling",
}

// QueryForCategory returns the curated query for a category, falling back to
// a generic "latest news" query for unmapped categories.
func QueryForCategory(category string) string {
	if q, ok := categoryQueries[category]; ok {
		return q
	}
	return fmt.Sprintf("%s latest news trends", category)
}

func CaseStudyQueryForCategory(category string) string {
	if q, ok := caseStudyQueries[category]; ok {
		return q
	}
	return fmt.Sprintf("%s real company case study implementation", category)
}
