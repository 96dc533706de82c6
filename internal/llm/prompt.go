package llm

import "strings"

const systemMessage = "You are a professional AI assistant that analyzes customer reviews and returns a structured summary for e-commerce decision-making."

const promptTemplate = `Your task is to read the customer reviews provided below and generate a complete report in **exactly 6 numbered sections** as shown.
You **must return all 6 sections**. Do not skip or omit any section. If the data is missing, infer or explain based on the available content.

---

**Follow this exact format:**

1. **Overall Sentiment Summary**
- Describe the general customer sentiment (positive, negative, or mixed) and why.

2. **Key Features Frequently Mentioned**
- List the most mentioned features. Use bullet points.

3. **Top 3 Recurring Pain Points**
- List exactly 3 specific complaints or issues from users.

4. **Aggregate Rating (Out of 5)**
- Give a realistic score like 4.1 / 5 based on all reviews.

5. **Pros and Cons**
- Two sections:
    - Pros: ✅ Bulleted list of advantages
    - Cons: ❌ Bulleted list of disadvantages

6. **Frequently Asked Questions (FAQs)**
- Generate 3-5 buyer questions based on the reviews.

---

**Important Rules:**
- Format exactly in 6 sections using the numbers above.
- Use bold section titles.
- If any section is missing from your answer, your response is invalid.
- You must complete all 6 sections before ending your response.

---

### Customer Reviews:
"""
{{reviews}}
"""
`

// BuildPrompt подставляет блок отзывов в шаблон из шести разделов.
func BuildPrompt(reviews string) string {
	return strings.Replace(promptTemplate, "{{reviews}}", reviews, 1)
}

func formatPrompt(systemMsg, userPrompt string) string {
	return "System: " + systemMsg + "\n\nUser: " + userPrompt
}
