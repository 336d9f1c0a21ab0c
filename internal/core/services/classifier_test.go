package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

func TestClassifierService_Classify(t *testing.T) {
	classifier := NewClassifierService()

	tests := []struct {
		name    string
		message string
		want    domain.TaskType
	}{
		{"code request", "debug this python function for me", domain.TaskCode},
		{"email request", "draft a reply email to my manager", domain.TaskEmail},
		{"resume request", "improve my resume and cover letter", domain.TaskResume},
		{"creative request", "write a story with an interesting plot", domain.TaskCreative},
		{"writing request", "compose an article about habits", domain.TaskWriting},
		{"document request", "analyze this pdf document", domain.TaskDocumentAnalysis},
		{"rag request", "search my notes for the budget figures", domain.TaskRAGQuery},
		{"summary request", "give me a tl;dr of the key points", domain.TaskSummary},
		{"question", "what is the capital of France?", domain.TaskQuestion},
		{"plain chat", "good morning!", domain.TaskChat},
		{"empty", "", domain.TaskChat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Classify(tt.message)
			assert.Equal(t, tt.want, got.Task)
		})
	}
}

func TestClassifierService_TieBreakPrefersSpecificTask(t *testing.T) {
	classifier := NewClassifierService()

	// "summarize the document" scores one for summary and one for
	// document analysis; document analysis sits higher in the priority
	// order and must win the tie.
	got := classifier.Classify("summarize the document")
	assert.Equal(t, got.Scores[domain.TaskSummary], got.Scores[domain.TaskDocumentAnalysis])
	assert.Equal(t, domain.TaskDocumentAnalysis, got.Task)
}

func TestClassifierService_CaseInsensitive(t *testing.T) {
	classifier := NewClassifierService()

	upper := classifier.Classify("SUMMARIZE THE KEY POINTS")
	lower := classifier.Classify("summarize the key points")
	assert.Equal(t, lower.Task, upper.Task)
	assert.Equal(t, domain.TaskSummary, upper.Task)
}

func TestClassifierService_Complexity(t *testing.T) {
	classifier := NewClassifierService()

	tests := []struct {
		name    string
		message string
		want    domain.Complexity
	}{
		{"high", "write a detailed and comprehensive report", domain.ComplexityHigh},
		{"low", "just a quick summary", domain.ComplexityLow},
		{"normal", "tell me about whales", domain.ComplexityNormal},
		{"balanced indicators", "a quick but thorough look", domain.ComplexityNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Classify(tt.message)
			assert.Equal(t, tt.want, got.Complexity)
		})
	}
}

func TestClassifierService_ScoresExposed(t *testing.T) {
	classifier := NewClassifierService()

	got := classifier.Classify("debug this python code")
	assert.Greater(t, got.Scores[domain.TaskCode], 0)
	assert.Zero(t, got.Scores[domain.TaskResume])
}
