package report

import (
	"bytes"
	"encoding/csv"
	"strings"
)

// Block is one section of the blank questionnaire
type Block struct {
	Title     string
	Questions []string
}

// Questionnaire lists every section with its questions. Section 3 appears
// once per company type; respondents keep the variant that applies.
var Questionnaire = []Block{
	{
		Title:     "Section 1: Company Profile & Strategic Alignment",
		Questions: []string{
			"Company Name",
			"Primary NAICS Codes (Only GovCon)",
			"Revenue",
			"Number of Employees",
			"Company Type: Basic, Financial Transaction Services, Healthcare, Technology & Government",
			"What is your company's overall mission and how does AI fit into it?",
			"Do you have a formal AI strategy or roadmap? If yes, please provide details or documents.",
			"Which of the following best describes your AI posture?",
			"Is there a designated AI lead, chief AI officer, or equivalent executive role? If yes, provide name/title.",
			"Who is responsible to AI strategy within your organization?",
			"What % of your internal Executive/Management Team meetings are discussing AI initiatives?",
			"What business outcomes are you aiming to achieve with AI over the next 12–24 months?",
			"Which of the following best describes your AI investment approach? Opportunistic, Strategic, Innovation-led, or Not yet defined",
			"In which areas does your leadership see the greatest risk or resistance to AI adoption?",
		},
	},
	{
		Title:     "Section 2: AI Capabilities & Technical Maturity",
		Questions: []string{
			"Which of the following AI/ML capabilities does your company currently possess or deliver?",
			"Describe your internal AI development capability (e.g., number of AI/ML engineers, data scientists, tools used).",
			"Do you use open-source, proprietary, or government-provided models? Please specify examples.",
			"What development frameworks and toolchains are most commonly used?",
			"Do you have a formal AI/ML lifecycle management system in place?",
			"Do you conduct independent AI R&D? If yes, list notable efforts, funding sources, or publications.",
			"How frequently do you use AI tools in your day-to-day work?",
			"What types of AI tools do you personally use?",
			"For which tasks do you most commonly use AI? Include Use Case Summary, if Applicable",
			"How confident are you in using AI tools effectively?",
			"In which business functions is AI currently being used?",
			"How do you currently measure the impact or success of your AI solutions?",
			"Which stages of the AI lifecycle are you strongest in, and which need the most improvement?",
			"Do you follow any AI maturity model or framework to guide capability development?",
			"What AI capabilities do you consider essential to build or acquire in the next 12–24 months?",
			"Do you have a data infrastructure strategy?",
		},
	},
	{
		Title:     "Section 3: Government AI Integration & Contract Performance",
		Questions: []string{
			"On which contracts have you delivered AI-enabled capabilities?",
			"Are you currently on or pursuing any AI-specific IDIQs/BPAs?",
			"What security clearances or environments can your AI solutions operate within?",
			"Have you worked with government stakeholders on AI testing, evaluation, red teaming, or risk management?",
			"How do you ensure explainability, fairness, and ethical AI in federal applications?",
			"Are your AI tools or models accredited or certified for government use? If yes, list them.",
			"How does your company typically introduce AI capabilities to potential government clients?",
			"Do you use proof-of-concepts (POCs) or minimum viable products (MVPs) to demonstrate AI capabilities? Please provide examples.",
			"Are your customers inquiring about use of AI? If so, in what way?",
			"What risk of disruption does Generative AI pose?",
			"Are you partnered or subcontracted under any of the Big Primes for AI work?",
			"How does your AI capability align with current government priorities (e.g., autonomy, ISR, digital workforce)?",
			"Do you face procurement or regulatory barriers to AI adoption in government environments? If so, describe.",
			"Are you participating in any cross-agency AI initiatives, testbeds, or R&D challenges?",
			"What is your go-to-market strategy for AI solutions in the public sector?",
		},
	},
	{
		Title:     "Section 3: AI Adoption & Compliance in Healthcare Settings",
		Questions: []string{
			"On which healthcare initiatives or products have you delivered AI-enabled capabilities?",
			"Are you currently involved in or pursuing AI-specific collaborations with healthcare providers, payers, or research institutions?",
			"What compliance or regulatory environments can your AI solutions operate within? (e.g., HIPAA, FDA, ONC)",
			"Have you worked with clinical or regulatory stakeholders on AI validation, risk assessment, or model governance?",
			"How do you ensure explainability, fairness, and ethical AI in clinical or patient-facing applications?",
			"Are your AI tools or models accredited, validated, or cleared for use in healthcare? If yes, please list them.",
			"How does your company typically introduce AI capabilities to potential healthcare clients?",
			"Do you use clinical pilots, retrospective studies, or MVPs to demonstrate AI effectiveness? Please provide examples.",
			"Are your healthcare customers inquiring about AI? If so, in what context? (e.g., diagnostics, workflow automation, population health)",
			"What risk or opportunity does Generative AI pose in healthcare settings?",
			"Are you partnered with any major health systems, vendors, or academic institutions for AI initiatives?",
			"How are you addressing clinical validation and real-world evidence for AI in healthcare settings?",
			"What feedback have you received from clinical or operational users about your AI tools?",
			"Are your AI tools integrated with any EHRs, medical devices, or digital health platforms?",
			"What is your go-to-market strategy for AI solutions in the healthcare industry?",
		},
	},
	{
		Title:     "Section 3: AI Integration & Financial Services Delivery",
		Questions: []string{
			"On which financial products, platforms, or services have you delivered AI-enabled capabilities?",
			"Are you currently part of any AI-focused fintech accelerators, banking innovation labs, or regulatory sandboxes?",
			"What regulatory environments can your AI solutions operate within? (e.g., SEC, FINRA, GDPR, PCI DSS)",
			"Have you collaborated with internal risk, compliance, or audit teams on AI testing or governance?",
			"How do you ensure explainability, fairness, and ethical AI in financial decision-making systems?",
			"Are any of your AI models certified or validated by regulatory or industry bodies? If yes, list them.",
			"How does your company introduce AI capabilities to banking, insurance, or capital markets clients?",
			"Do you use proof-of-concepts (POCs) or MVPs to demonstrate AI capabilities in financial workflows? Please provide examples.",
			"Are your customers asking about AI adoption? In what areas? (e.g., fraud detection, credit scoring, trading, customer insights)",
			"What disruptive risks or opportunities do you associate with Generative AI in finance?",
			"Are you partnered with major financial institutions or consultancies for AI work?",
			"How is your company approaching model governance for AI in regulated financial workflows?",
			"Are you using AI for real-time risk management or compliance monitoring? If yes, how?",
			"What role do LLMs or Generative AI play in areas like customer communication, fraud detection, or compliance automation?",
			"What is your go-to-market strategy for AI offerings in the financial services sector?",
		},
	},
	{
		Title:     "Section 3: AI Integration & Business Operations",
		Questions: []string{
			"On which products, services or operational processes have you delivered AI-enabled capabilities?",
			"Which operational areas (e.g., supply chain, manufacturing, logistics, customer service) use AI today?",
			"What safety, quality or regulatory standards must your AI solutions meet? (e.g., ISO 9001, ISO 27001, OSHA)",
			"Have you worked with operations, quality or risk stakeholders on AI testing, validation or governance?",
			"How do you ensure explainability, fairness, and ethical AI in operational decision-making?",
			"Are any of your AI tools or models certified or validated for use in your industry? If yes, list them.",
			"How does your company typically introduce AI capabilities to customers or business units?",
			"Do you use proof-of-concepts (POCs) or pilots to demonstrate AI value in operations? Please provide examples.",
			"Are your customers inquiring about use of AI? If so, in what way?",
			"What risk of disruption or opportunity does Generative AI pose to your operations?",
			"Are you partnered with technology vendors or integrators for AI work?",
			"How do you measure the operational impact of AI (e.g., cost, throughput, downtime, quality)?",
			"What data from your operations (e.g., sensors, ERP, MES) is available and usable for AI?",
			"What barriers (cost, skills, legacy systems) slow AI adoption in your operations?",
			"What is your go-to-market or rollout strategy for AI across the business?",
		},
	},
	{
		Title:     "Section 4: Partnerships, Ecosystem & Industry Engagement",
		Questions: []string{
			"Which AI hardware or cloud partners do you actively collaborate with?",
			"Are you a participant in any government or academic consortia on AI?",
			"Do you have partnerships with any academic institutions for AI research or talent pipeline?",
			"Do you collaborate with OpenAI, Anthropic, Cohere, or other foundation model companies?",
		},
	},
	{
		Title:     "Section 5: AI Talent, Culture & Organizational Readiness",
		Questions: []string{
			"How many employees work in AI-related roles? Provide counts by function.",
			"Do you have AI-focused hiring goals or workforce development plans?",
			"Does your company offer AI training or upskilling programs internally?",
			"Do you have ethical guidelines or training in place for responsible AI use?",
			"Is AI incorporated into your company business development or proposal writing capabilities?",
			"How is AI being integrated into internal business functions such as HR, marketing, finance, and operations?",
			"Is AI used in any business development, sales, marketing, or proposal-related processes? If so, how?",
			"Is AI used in account planning or customer relationship strategies? If so, describe how it informs targeting, engagement, or pipeline development.",
		},
	},
	{
		Title:     "Section 6: Future Readiness & Differentiators",
		Questions: []string{
			"What emerging AI capabilities are you investing in?",
			"What do you see as your company's competitive advantage in the AI market you serve?",
			"What challenges are you facing in scaling or deploying AI within your target market or client base?",
			"Where do you see your company's role in the AI ecosystem over the next 3–5 years?",
			"Are you planning on reducing your workforce and replace it with AI?",
			"Are there any current or upcoming AI initiatives you'd like to highlight for strategic investment or collaboration?",
		},
	},
}

// TemplateCSV renders the blank questionnaire as Section,Question,Answer
// rows, with one get-well plan row closing each section.
func TemplateCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Section", "Question", "Answer"}); err != nil {
		return nil, err
	}
	for _, b := range Questionnaire {
		for _, q := range b.Questions {
			if err := w.Write([]string{b.Title, q, ""}); err != nil {
				return nil, err
			}
		}
		if err := w.Write([]string{b.Title, "Get-Well Plan AI " + b.Title, ""}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// QuestionCount returns the number of questions in blocks whose title has prefix.
func QuestionCount(prefix string) int {
	n := 0
	for _, b := range Questionnaire {
		if strings.HasPrefix(b.Title, prefix) {
			n += len(b.Questions)
		}
	}
	return n
}
