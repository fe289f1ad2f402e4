package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

const questionsSystemPrompt = `You are an expert tutor writing a short diagnostic quiz.

Rules:
- Assess the learner's understanding of the core concepts of the given topic.
- Each question has exactly 4 options.
- correct_answer must be copied exactly from one of the options.
- difficulty is one of "Easy", "Medium" or "Hard". Mix the levels.
- Do not repeat a question or reuse the same option set twice.
- Respond with JSON only. No markdown, no code fences.`

const analysisSystemPrompt = `You are an expert tutor reviewing a learner's quiz results.

Rules:
- Name the learner's strengths and weaknesses as short concept names.
- Suggest a personalized learning path of 3 to 5 ordered modules.
- Each module step is a short, unique title. The description says what the module covers.
- Order modules from foundational to advanced, starting with the weakest area.
- overall_score is an integer from 0 to 100 reflecting the share of correct answers and their difficulty.
- Respond with JSON only. No markdown, no code fences.`

const moduleSystemPrompt = `You are an expert tutor writing one lesson of a learning path.

Rules:
- explanation is a clear, engaging markdown explanation of the module's concept.
- code_snippet is a short code example demonstrating the concept. Use an empty string if code does not fit the topic.
- practice_question tests the concept just explained and has exactly 4 options.
- correct_answer must be copied exactly from one of the options.
- The practice explanation says why the correct answer is correct.
- Respond with JSON only.`

const tipSystemPrompt = `You are an encouraging tutor.

Rules:
- Write a short tip or "did you know" fact about what the learner just finished.
- Briefly mention what comes next if you can infer it, otherwise stay general.
- Keep it under 2 sentences.
- Plain text only. No markdown, no quotes.`

const subjectsSystemPrompt = `You are an academic advisor.

Rules:
- List 6 to 8 relevant subjects or specializations for the given degree or programme.
- Use short names as they appear in a syllabus.
- Examples: BCA -> Programming, Data Structures, DBMS, Networking, OOP, AI Basics.
  B.Tech CSE -> DSA, OS, DBMS, CN, AI/ML, Compiler Design.
  B.Com -> Accounting, Business Maths, Economics, Financial Management.
- Respond with JSON only.`

func buildQuestionsMessage(topic string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Questions: %d\n", count)
	return b.String()
}

func buildAnalysisMessage(topic string, answers []AnswerRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", topic)

	correct := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}
	fmt.Fprintf(&b, "Correct: %d of %d\n", correct, len(answers))

	b.WriteString("\nAnswers:\n")
	// AnswerRecord has only plain fields, so marshaling cannot fail.
	enc, _ := json.MarshalIndent(answers, "", "  ")
	b.Write(enc)
	b.WriteByte('\n')
	return b.String()
}

func buildModuleMessage(topic, module string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Module: %s\n", module)
	return b.String()
}

func buildTipMessage(topic, module string) string {
	return fmt.Sprintf("The learner just completed the module %q in the topic %q.", module, topic)
}

func buildSubjectsMessage(degree string) string {
	return fmt.Sprintf("Degree or programme: %s\n", degree)
}
