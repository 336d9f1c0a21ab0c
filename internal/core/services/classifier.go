package services

import (
	"regexp"
	"strings"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
	"github.com/aurelia-labs/nexus-cli/internal/logger"
)

// taskPatterns maps each task type to the phrases that signal it.
// A request is scored one point per matching pattern and classified
// as the highest scoring task.
var taskPatterns = map[domain.TaskType][]*regexp.Regexp{
	domain.TaskCode: compilePatterns(
		`\bcode\b`, `\bfunction\b`, `\bclass\b`, `\bpython\b`,
		`\bjavascript\b`, `\bprogram\b`, `\bdebug\b`, `\bfix\s+this\b`,
		`\bimport\b`, `\bdef\b`, `\breturn\b`, `\bfor\s+loop\b`,
		`\bsyntax\b`, `\bcompile\b`, `\bscript\b`,
	),
	domain.TaskEmail: compilePatterns(
		`\bemail\b`, `\breply\b`, `\brespond\s+to\b`, `\bdraft\b`,
		`\bsubject\s+line\b`, `\bprofessional\s+message\b`,
		`\bdear\b.*letter`, `\bthank\s+you\s+note\b`,
	),
	domain.TaskResume: compilePatterns(
		`\bresume\b`, `\bcv\b`, `\bcover\s+letter\b`, `\bjob\s+application\b`,
		`\bwork\s+experience\b`, `\bqualifications\b`, `\bhiring\b`,
	),
	domain.TaskCreative: compilePatterns(
		`\bstory\b`, `\bpoem\b`, `\bcreative\b`, `\bimagine\b`,
		`\bfiction\b`, `\bcharacter\b`, `\bplot\b`, `\bwrite\s+a\b`,
		`\bnarrative\b`, `\bdialogue\b`, `\bscene\b`,
	),
	domain.TaskWriting: compilePatterns(
		`\bwrite\b`, `\bcompose\b`, `\barticle\b`, `\bblog\b`,
		`\bessay\b`, `\bparagraph\b`, `\brewrite\b`, `\bparaphrase\b`,
		`\bsummarize\b.*long`, `\bexpand\b`, `\belaborate\b`,
	),
	domain.TaskDocumentAnalysis: compilePatterns(
		`\bdocument\b`, `\bpdf\b`, `\bfile\b`, `\banalyze\b`,
		`\breview\b`, `\bextract\b`, `\bfrom\s+the\b.*\b(document|file|pdf)\b`,
		`\bwhat\s+does\s+(the|this)\b.*\bsay\b`,
	),
	domain.TaskRAGQuery: compilePatterns(
		`\bmy\s+(documents?|files?|notes?)\b`, `\bsearch\s+my\b`,
		`\bfind\s+in\b`, `\baccording\s+to\b`, `\bwhat\s+do\s+i\s+have\b`,
		`\bin\s+my\s+(files?|documents?)\b`,
	),
	domain.TaskSummary: compilePatterns(
		`\bsummarize\b`, `\bsummary\b`, `\btl;?dr\b`, `\bkey\s+points\b`,
		`\bmain\s+ideas?\b`, `\boverview\b`, `\bbrief\b`,
	),
	domain.TaskQuestion: compilePatterns(
		`^(what|who|where|when|why|how|can|could|would|should|is|are|do|does)\b`,
		`\?$`, `\bexplain\b`, `\btell\s+me\b`, `\bwhat\s+is\b`,
	),
}

// complexityHigh and complexityLow signal how elaborate an answer the
// user wants. High wins on a strict majority, low likewise, otherwise
// normal.
var (
	complexityHigh = compilePatterns(
		`\bdetailed\b`, `\bcomprehensive\b`, `\bin-depth\b`,
		`\bthorough\b`, `\bcomplete\b`, `\blong-form\b`,
		`\bprofessional\b`, `\bpolished\b`,
	)
	complexityLow = compilePatterns(
		`\bquick\b`, `\bbrief\b`, `\bsimple\b`, `\bshort\b`,
		`\bjust\b`, `\bonly\b`, `\bbasic\b`,
	)
)

func compilePatterns(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

// ClassifierService determines what kind of task a request is.
type ClassifierService struct{}

// NewClassifierService creates a new classifier.
func NewClassifierService() *ClassifierService {
	return &ClassifierService{}
}

// Classify scores a request against every task's patterns. Ties on the
// top score resolve by a fixed specificity order, with the more
// specific task winning over generic ones like question and chat.
// A request matching nothing is a chat.
func (s *ClassifierService) Classify(message string) domain.Classification {
	lower := strings.ToLower(strings.TrimSpace(message))

	scores := make(map[domain.TaskType]int, len(taskPatterns))
	for task, patterns := range taskPatterns {
		for _, p := range patterns {
			if p.MatchString(lower) {
				scores[task]++
			}
		}
	}

	best := domain.TaskChat
	bestScore := 0
	for _, task := range domain.TaskPriority {
		if scores[task] > bestScore {
			best = task
			bestScore = scores[task]
		}
	}

	complexity := assessComplexity(lower)
	logger.Debug("Classified as %s (score %d, complexity %s)", best, bestScore, complexity)

	return domain.Classification{
		Task:       best,
		Scores:     scores,
		Complexity: complexity,
	}
}

func assessComplexity(lower string) domain.Complexity {
	high := 0
	for _, p := range complexityHigh {
		if p.MatchString(lower) {
			high++
		}
	}
	low := 0
	for _, p := range complexityLow {
		if p.MatchString(lower) {
			low++
		}
	}

	switch {
	case high > low:
		return domain.ComplexityHigh
	case low > high:
		return domain.ComplexityLow
	default:
		return domain.ComplexityNormal
	}
}
