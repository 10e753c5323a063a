package newsdesk

import "fmt"

// TopicsSystemPrompt instructs the model to pull headline candidates out of
// the flattened workspace text.
const TopicsSystemPrompt = "あなたはニュース編集者です。以下のデータを読み取り、ニュースバリューのあるトピックを複数見つけ、それぞれ短くタイトルを生成してください。ないことを付け加えないでください。"

// EvaluationSystemPrompt frames the headline review.
const EvaluationSystemPrompt = "あなたはニュース編集者です。以下のタイトルを評価してください。"

const evaluationTemplate = `タイトル「%s」を評価してください。ニュースバリュー、公序良俗、法規制の観点で、それぞれの適切性を次のJSON形式で評価し、理由を説明してください: {"newsValue": {"valid": true/false, "reason": "理由"}, "publicDecency": {"valid": true/false, "reason": "理由"}, "legalCompliance": {"valid": true/false, "reason": "理由"}}`

// BuildEvaluationPrompt asks for a newsValue/publicDecency/legalCompliance
// verdict on a single headline.
func BuildEvaluationPrompt(title string) string {
	return fmt.Sprintf(evaluationTemplate, title)
}
