package coach

import (
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/coachr/internal/debate"
)

const (
	echoRunes    = 100
	excerptRunes = 200
)

// fallbackRules are checked in order against the lowercased message; the
// first rule with a matching keyword answers.
var fallbackRules = []struct {
	keywords []string
	template string
}{
	{[]string{"improve", "better", "help"}, improveFallback},
	{[]string{"practice", "exercise", "drill"}, practiceFallback},
	{[]string{"strong", "weak", "good", "bad"}, strengthsFallback},
}

// Fallback answers a chat message without the model. It never fails and
// never returns an empty string.
func Fallback(userMessage, feedbackContext, topic string) string {
	t := debate.Topic(topic)
	excerpt := feedbackExcerpt(feedbackContext)

	lower := strings.ToLower(userMessage)
	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return fmt.Sprintf(rule.template, t) + excerpt + fallbackNotice
			}
		}
	}
	return fmt.Sprintf(genericFallback, t, echo(userMessage)) + excerpt + fallbackNotice
}

func feedbackExcerpt(feedbackContext string) string {
	text := strings.Join(strings.Fields(feedbackContext), " ")
	if text == "" {
		return ""
	}
	if short := truncateRunes(text, excerptRunes); short != text {
		text = short + "..."
	}
	return fmt.Sprintf("\n\nFrom your feedback: \"%s\"", text)
}

func echo(msg string) string {
	msg = strings.TrimSpace(msg)
	if short := truncateRunes(msg, echoRunes); short != msg {
		return short + "..."
	}
	return msg
}

const fallbackNotice = "\n\n*The AI coach is temporarily unavailable. This is a general fallback response, not a personalized analysis of your performance.*"

const improveFallback = `Based on your analysis for the topic "%s", here are some general improvement strategies:

**Key Areas to Focus On:**
- **Argument Structure**: Use a clear claim, warrant and impact format
- **Evidence Quality**: Incorporate recent, credible sources
- **Time Management**: Practice with a timer to optimize pacing
- **Refutation**: Address opponent arguments directly and thoroughly

**Next Steps:**
1. Review your initial feedback carefully
2. Practice the specific skills mentioned in the analysis
3. Record yourself again to track progress`

const practiceFallback = `Here are some practice exercises for "%s":

**Daily Practice Routine:**
- **5-minute drills**: Argue both sides of your topic
- **Evidence integration**: Practice weaving sources into arguments
- **Timing practice**: Deliver contentions within time limits
- **Refutation practice**: Address common opposing arguments

**Specific Exercises:**
1. Record 2-minute opening statements
2. Practice transitions between contentions
3. Drill key statistics and evidence
4. Run mock cross-examination sessions`

const strengthsFallback = `Based on your feedback analysis for "%s":

**Likely Strengths:**
- Clear topic understanding
- Engagement with the resolution
- Attempt at structured argumentation

**Areas for Development:**
- Refine argument clarity and flow
- Strengthen evidence integration
- Improve timing and pacing
- Enhance refutation techniques

**General Advice:**
Focus on 2-3 specific improvement areas rather than trying to fix everything at once. Consistent practice with targeted skills will yield better results.`

const genericFallback = `Thank you for your question about "%s"!

**General Coaching Tips:**
- Review your initial feedback thoroughly
- Focus on one improvement area at a time
- Practice regularly with timing constraints
- Seek feedback from coaches or peers
- Watch strong debates for technique examples

**Try Again:** The personalized AI coach will be available once the connection is restored. Your question was: "%s"`
