package prompt

// Placeholders substituted by Render.
const (
	phResponses   = "{{responses}}"
	phScore       = "{{score}}"
	phCompanyType = "{{company_type}}"
)

// ScoringSystemPrompt pins the reply format that ParseReply expects.
const ScoringSystemPrompt = `You are an AI readiness assessment expert. Reply with one JSON object only (no markdown, no commentary) of the form {"score": <integer 1-10>, "justification": "<string>"}.`

// PlanSystemPrompt frames get-well plan generation.
const PlanSystemPrompt = `You are an expert AI consultant specializing in strategic planning and organizational development. Provide comprehensive, actionable Get-Well Plans with specific recommendations, timelines, and success metrics. Format the plan as markdown.`

// GetScoringSystemPrompt returns the system message sent with every scoring request.
func GetScoringSystemPrompt() string { return ScoringSystemPrompt }

// GetPlanSystemPrompt returns the system message sent with plan requests.
func GetPlanSystemPrompt() string { return PlanSystemPrompt }

const rubric = `
Scoring rubric:
- 1-3: little or no evidence; ad hoc or absent practices
- 4-6: emerging capability; some structure but inconsistent execution
- 7-8: established, repeatable practices with measurable results
- 9-10: leading practice; differentiated and continuously improved

Questionnaire responses:
{{responses}}

Return {"score": <1-10>, "justification": "<two or three sentences>"}.`

var (
	scoreProfile = Template{
		Key:   "section1",
		Title: "Company Profile & Strategic Alignment",
		Body: `Evaluate the company's strategic alignment with AI: clarity of mission, existence of a formal AI strategy or roadmap, executive ownership (chief AI officer or equivalent), leadership attention to AI, defined business outcomes, and investment posture.` + rubric,
	}
	scoreCapabilities = Template{
		Key:   "section2",
		Title: "AI Capabilities & Technical Maturity",
		Body: `Evaluate the company's technical AI maturity: in-house AI/ML talent and tooling, model sourcing, lifecycle management (MLOps), independent R&D, everyday tool adoption, impact measurement, and data infrastructure strategy.` + rubric,
	}
	scoreGovernment = Template{
		Key:   "section3_government",
		Title: "Government AI Integration & Contract Performance",
		Body: `Evaluate the company's delivery of AI to government customers: AI-enabled contract performance, AI-specific IDIQs/BPAs, security clearances and accredited environments, responsible AI and T&E practices, POCs and MVPs, alignment with agency priorities, and public sector go-to-market.` + rubric,
	}
	scoreHealthcare = Template{
		Key:   "section3_healthcare",
		Title: "AI Adoption & Compliance in Healthcare Settings",
		Body: `Evaluate the company's AI adoption in healthcare: delivered clinical or operational AI, provider/payer collaborations, HIPAA/FDA/ONC compliance, clinical validation and real-world evidence, explainability in patient-facing use, EHR and device integration, and healthcare go-to-market.` + rubric,
	}
	scoreFinance = Template{
		Key:   "section3_finance",
		Title: "AI Integration & Financial Services Delivery",
		Body: `Evaluate the company's AI integration in financial services: AI-enabled products, regulatory readiness (SEC, FINRA, GDPR, PCI DSS), model risk governance, explainability and fairness in financial decisions, real-time risk and compliance monitoring, and go-to-market in the sector.` + rubric,
	}
	scoreOperations = Template{
		Key:   "section3_default",
		Title: "AI Integration & Business Operations",
		Body: `Evaluate how the company integrates AI into its core business operations: delivered AI use cases, customer demand for AI, governance and compliance of AI in operations, demonstration through pilots, disruption risk from generative AI, and go-to-market for AI-enabled offerings.` + rubric,
	}
	scorePartnerships = Template{
		Key:   "section4",
		Title: "Partnerships, Ecosystem & Industry Engagement",
		Body: `Evaluate the company's AI ecosystem engagement: hardware and cloud partnerships, participation in government or academic consortia, academic research and talent pipelines, and collaboration with foundation model providers.` + rubric,
	}
	scoreTalent = Template{
		Key:   "section5",
		Title: "AI Talent, Culture & Organizational Readiness",
		Body: `Evaluate the company's organizational readiness for AI: headcount in AI roles, hiring and workforce development plans, internal training, responsible AI guidelines, and use of AI across business development, proposals and internal functions.` + rubric,
	}
)

const planBody = `The company (type: {{company_type}}) scored {{score}}/10 on "%s".

Questionnaire responses:
{{responses}}

Write a Get-Well Plan that raises this score. Include:
### Current State Assessment
### Priority Recommendations
- concrete actions, each with an owner role
### 30/60/90 Day Roadmap
### Success Metrics
Keep it specific to the responses above.`
