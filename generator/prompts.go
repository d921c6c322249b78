package generator

import (
	"fmt"
	"strings"

	"github.com/postforge/postforge/schedule"
	"github.com/postforge/postforge/search"
)

const responseShape = `Return as JSON:
{
  "title": "Article title",
  "content": "Full markdown article...",
  "tags": ["tag1", "tag2", "tag3", "tag4"],
  "thread": ["tweet1", "tweet2", ...]
}`

// newsContext renders research results into prompt text. The summary length
// varies per post type: recaps cram many items, case studies want depth.
func newsContext(items []search.NewsItem, summaryLen int, fallback string) string {
	if len(items) == 0 {
		return fallback
	}

	var b strings.Builder
	for i, item := range items {
		summary := item.Content
		if len(summary) > summaryLen {
			summary = summary[:summaryLen] + "..."
		}
		label := ""
		if item.Category != "" {
			label = fmt.Sprintf("[%s] ", item.Category)
		}
		fmt.Fprintf(&b, "%d. %s%s\n   Source: %s\n   Summary: %s\n\n", i+1, label, item.Title, item.URL, summary)
	}
	return b.String()
}

func recentTitlesBlock(titles []string) string {
	if len(titles) == 0 {
		return "None"
	}
	var b strings.Builder
	for _, t := range titles {
		fmt.Fprintf(&b, "- %s\n", t)
	}
	return b.String()
}

// topicsBlock renders the operator's preferred topics as a prompt section,
// or nothing when none are configured.
func topicsBlock(topics []string) string {
	if len(topics) == 0 {
		return ""
	}
	return fmt.Sprintf("PREFERRED TOPICS (lean toward these when picking what to cover):\n%s\n\n",
		strings.Join(topics, ", "))
}

func buildWeeklyRecapPrompt(req Request) promptSpec {
	context := "No real-time news available. Write about general trends instead."
	if len(req.News) > 0 {
		context = "REAL NEWS ARTICLES FROM THIS WEEK:\n" +
			newsContext(req.News, 200, "") +
			"Use ONLY the above verified news articles. Do not invent any information."
	}

	prompt := fmt.Sprintf(`CRITICAL: You are creating a FACTUAL TECH + BUSINESS news recap for %s.

%s

STRICT RULES - MUST FOLLOW:
1. Use ONLY the news articles provided above - cite sources with URLs
2. DO NOT invent any information not in the provided articles
3. If articles mention specific versions/numbers, include them
4. Attribute information to sources (e.g., "According to [Source]...")
5. If no real news is available, write about general trends

STRUCTURE:
Organize the verified news into clear sections (BOTH Tech AND Business):

## TECH
1. **AI & Machine Learning** - LLMs, agents, generative AI announcements
2. **Cloud & DevOps** - Infrastructure, platform updates
3. **Developer Tools** - New releases, framework updates

## BUSINESS
4. **Startup & Funding** - Funding rounds, acquisitions, IPOs
5. **Product & Strategy** - Product launches, business moves
6. **Industry Insights** - Market trends, leadership changes

FORMAT:
1. DEV.TO ARTICLE:
- Title: "Weekly Recap: Tech + Business (%s)" - under 60 chars
- Content: 1500-2000 words, markdown (longer for comprehensive coverage)
- Include source URLs for each news item
- Organize by sections above (both tech AND business)
- Tags: ["weeklyrecap", "technews", "startup", "business"]

2. TWITTER THREAD (8-10 tweets, max 250 chars each):
- Tweet 1: "Weekly Tech + Business Recap (%s) - a thread"
- Tweets 2-4: Top tech news (short, punchy)
- Tweets 5-7: Top business/startup news
- Tweets 8-9: Key insights
- Tweet 10: "Full article with sources above. #TechNews #StartupNews"

%s`, req.DateRange, context, req.DateRange, req.DateRange, responseShape)

	return promptSpec{prompt: prompt, temperature: 0.7}
}

func buildTrendsPrompt(req Request) promptSpec {
	context := "No real-time news found. Write about emerging trends and insights."
	if len(req.News) > 0 {
		context = "REAL NEWS & TRENDS:\n" + newsContext(req.News, 300, "") + "Use these verified sources."
	}

	typeLabel := "Business"
	angle := "Include business frameworks and strategic insights"
	hashtag := "#BusinessTrends"
	if req.Decision.CategoryType == schedule.CategoryTech {
		typeLabel = "Tech"
		angle = "Include technical details and code snippets where relevant"
		hashtag = "#TechTrends"
	}

	prompt := fmt.Sprintf(`Create a TRENDS & INSIGHTS article about "%s".

%s

TYPE: %s Trends

RULES:
1. Use verified sources when available
2. Focus on actionable insights, not just news
3. Include analysis and implications
4. %s

FORMAT:
1. DEV.TO ARTICLE:
- Title: "%s: Key Trends & Insights" or similar, under 60 chars
- Content: 1000-1500 words, markdown
- Sections: Overview, Key Trends, Analysis, What This Means, Action Items
- Tags: ["trends", related tags]

2. TWITTER THREAD (5-6 tweets, max 250 chars each):
- Tweet 1: "%s Trends - What you need to know. A thread"
- Tweets 2-5: Key insights (short, punchy)
- Tweet 6: "What trends are you seeing? %s"

%s`, req.Decision.Category, context, typeLabel, angle, req.Decision.Category, req.Decision.Category, hashtag, responseShape)

	return promptSpec{prompt: prompt, temperature: 0.7}
}

func buildBusinessPrompt(req Request) promptSpec {
	context := "Use well-known business cases from major companies."
	if len(req.News) > 0 {
		context = "REAL BUSINESS EXAMPLES:\n" + newsContext(req.News, 300, "") + "Reference these real examples where relevant."
	}

	prompt := fmt.Sprintf(`Create a BUSINESS/MBA article about "%s".

%s

RECENT POSTS TO AVOID:
%s

TARGET AUDIENCE: Tech professionals, founders, product managers, MBA students

CONTENT STYLE:
- Explain business concepts clearly with practical examples
- Include frameworks and mental models
- Use real company case studies (from search results above)
- Make it actionable with templates/checklists where appropriate
- NO code, but can include tables/diagrams in markdown

TITLE FORMAT:
- "[Framework/Concept]: A Practical Guide for Tech Leaders"
- "[Topic] Explained: What Every Founder Should Know"
- "Mastering [Skill]: An MBA Perspective"

FORMAT:
1. DEV.TO ARTICLE:
- Title: Clear and professional, under 60 chars
- Content: 1200-1800 words, markdown
- Sections: Introduction, Core Concepts, Framework/Model, Real Examples, Application, Key Takeaways
- Include at least one table or framework visualization
- Tags: ["business", "startup", "strategy", related tag]

2. TWITTER THREAD (6-7 tweets, max 250 chars each):
- Tweet 1: "[Topic] - What I learned from [Company/MBA]. A thread"
- Tweets 2-5: Key frameworks/insights
- Tweet 6-7: How to apply + hashtags

%s`, req.Decision.Category, context, recentTitlesBlock(req.RecentTitles), responseShape)

	return promptSpec{prompt: prompt, temperature: 0.8}
}

func buildTutorialPrompt(req Request) promptSpec {
	prompt := fmt.Sprintf(`You are creating a TUTORIAL article for "%s".

RECENT POSTS TO AVOID:
%s

%sTITLE FORMAT (IMPORTANT):
Use this searchable structure: "[Technology] - [Specific Topic] - Explained/Tutorial/Guide"
Examples:
- "Python - List Comprehensions - Explained"
- "React - Custom Hooks - Complete Tutorial"
- "Docker - Multi-Stage Builds - Guide"
- "Machine Learning - Feature Engineering - Explained"
- "AWS - Lambda Functions - Step by Step"

REQUIREMENTS:
1. Pick a specific, actionable topic NOT in recent posts
2. Write for intermediate developers
3. Include 4-6 code examples
4. Step-by-step instructions
5. Practical use cases

FORMAT:
1. DEV.TO ARTICLE:
- Title: Follow the "[Tech] - [Topic] - Type" format, under 60 chars
- Content: 1200-1800 words, markdown
- Sections: Introduction, Prerequisites, Step-by-Step, Code Examples, Best Practices, Conclusion
- Tags: 4 relevant tags

2. TWITTER THREAD (6-8 tweets):
- Tweet 1: "[Topic] Tutorial - A thread"
- Tweets 2-6: Key concepts with code
- Tweet 7-8: Call to action + hashtags

%s`, req.Decision.Category, recentTitlesBlock(req.RecentTitles), topicsBlock(req.Topics), responseShape)

	return promptSpec{prompt: prompt, temperature: 0.8}
}

func buildLatestNewsPrompt(req Request) promptSpec {
	context := "No real-time news found. Write about recent developments and trends instead."
	if len(req.News) > 0 {
		context = "REAL NEWS ARTICLES:\n" + newsContext(req.News, 300, "") + "Use ONLY these verified articles."
	}

	prompt := fmt.Sprintf(`Create a NEWS UPDATE article about the latest in "%s".

%s

RULES:
1. Use ONLY the news articles above - cite sources
2. DO NOT invent information
3. Include source URLs
4. If no news available, discuss recent industry trends

FORMAT:
1. DEV.TO ARTICLE:
- Title: "%s: Latest News & Updates" or similar, under 60 chars
- Content: 800-1200 words, markdown
- Include source links
- Tags: ["news", category-related tags]

2. TWITTER THREAD (5-6 tweets):
- Tweet 1: "Latest in %s - here's what's happening. A thread"
- Tweets 2-5: Key news items
- Tweet 6: "Follow for daily tech updates! #TechNews"

%s`, req.Decision.Category, context, req.Decision.Category, req.Decision.Category, responseShape)

	return promptSpec{prompt: prompt, temperature: 0.7}
}

func buildCaseStudyPrompt(req Request) promptSpec {
	context := "No real case studies found. Use well-known public examples from major tech companies."
	if len(req.News) > 0 {
		context = "REAL COMPANY CASE STUDIES TO REFERENCE:\n" + newsContext(req.News, 400, "") +
			"IMPORTANT: Write about ONE of these REAL companies. Use verified facts from the sources."
	}

	prompt := fmt.Sprintf(`Create a CASE STUDY article about a REAL company for "%s".

%s

RECENT POSTS TO AVOID:
%s

CRITICAL RULES:
1. Write about a REAL company from the search results above
2. Use VERIFIED facts and cite sources
3. DO NOT invent metrics, numbers, or company names
4. Include the source URL in the article
5. Focus on publicly available technical details

WELL-KNOWN COMPANIES TO CONSIDER (if no search results):
- AI/ML: OpenAI, Anthropic, Google DeepMind, Meta AI
- Data: Netflix, Spotify, Airbnb, Uber, LinkedIn
- Infrastructure: Stripe, Cloudflare, Datadog
- Product: Notion, Figma, Slack, Discord

FORMAT:
1. DEV.TO ARTICLE:
- Title: "How [Company] Built [X]: A %s Case Study" - under 60 chars
- Content: 1500-2000 words, markdown
- Sections: About [Company], The Challenge, Technical Solution, Implementation, Results, Lessons Learned
- Include source citations with URLs
- 2-3 code examples (based on public info)
- Tags: ["casestudy", company-name, technology tags]

2. TWITTER THREAD (6-7 tweets, max 250 chars each):
- Tweet 1: "How [Company] solved [X] - A thread"
- Tweets 2-5: Key technical decisions (short, punchy)
- Tweet 6-7: Results + source link

%s`, req.Decision.Category, context, recentTitlesBlock(req.RecentTitles), req.Decision.Category, responseShape)

	return promptSpec{prompt: prompt, temperature: 0.7}
}
