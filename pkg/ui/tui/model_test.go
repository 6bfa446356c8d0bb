package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"rclogs/pkg/calllog"
	"rclogs/pkg/ringcentral"
)

func TestModel(t *testing.T) {
	model := NewModel()

	// Test page tracking
	model.AddPage(1, 250)
	model.AddPage(2, 120)
	if model.stats.Pages != 2 {
		t.Errorf("Expected 2 pages, got %d", model.stats.Pages)
	}
	if model.currentPage != 2 || model.lastPageSize != 120 {
		t.Errorf("Expected current page 2 with 120 records, got %d with %d", model.currentPage, model.lastPageSize)
	}

	// Test outcome counting
	model.AddResult(ringcentral.CallLogRecord{ID: "AbC123"}, calllog.Deleted())
	model.AddResult(ringcentral.CallLogRecord{ID: "DeF456"}, calllog.Skipped("no matching leg"))
	model.AddResult(ringcentral.CallLogRecord{ID: "GhI789"}, calllog.Failed(errors.New("record locked")))

	if model.stats.Processed != 3 {
		t.Errorf("Expected 3 processed, got %d", model.stats.Processed)
	}
	if model.stats.Deleted != 1 || model.stats.Skipped != 1 || model.stats.Failed != 1 {
		t.Errorf("Expected 1/1/1 outcomes, got %d/%d/%d", model.stats.Deleted, model.stats.Skipped, model.stats.Failed)
	}
	if len(model.recent) != 3 {
		t.Fatalf("Expected 3 recent events, got %d", len(model.recent))
	}
	last := model.recent[2]
	if last.Outcome != calllog.OutcomeFailed || last.Detail != "record locked" {
		t.Errorf("Expected failed event with cause, got %v (%q)", last.Outcome, last.Detail)
	}

	// Test rate limit update
	resetTime := time.Now().Add(time.Minute)
	model.UpdateRateLimit(7, 10, resetTime)
	if model.rateLimitUsed != 7 || model.rateLimitMax != 10 {
		t.Errorf("Expected window 7/10, got %d/%d", model.rateLimitUsed, model.rateLimitMax)
	}

	// Test wait state
	model.SetWaiting("rate limit window full", 12*time.Second)
	if model.waitReason != "rate limit window full" {
		t.Errorf("Expected wait reason to be recorded, got %q", model.waitReason)
	}
	if !model.waitUntil.After(time.Now()) {
		t.Error("Expected waitUntil in the future")
	}

	// Test log messages
	model.AddLogMessage("INFO", "Test message")
	if len(model.logMessages) != 1 {
		t.Errorf("Expected 1 log message, got %d", len(model.logMessages))
	}
}

func TestModelRecentRingIsBounded(t *testing.T) {
	model := NewModel()

	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("rec-%d", i)
		model.AddResult(ringcentral.CallLogRecord{ID: id}, calllog.Deleted())
	}

	if len(model.recent) != model.maxRecent {
		t.Errorf("Expected %d recent events, got %d", model.maxRecent, len(model.recent))
	}
	if model.recent[0].ID != "rec-12" {
		t.Errorf("Expected oldest kept event to be rec-12, got %s", model.recent[0].ID)
	}
	if model.stats.Processed != 20 {
		t.Errorf("Expected all 20 events counted, got %d", model.stats.Processed)
	}
}

func TestModelLogMessagesAreBounded(t *testing.T) {
	model := NewModel()

	for i := 0; i < 60; i++ {
		model.AddLogMessage("INFO", fmt.Sprintf("message %d", i))
	}

	if len(model.logMessages) != model.maxLogMessages {
		t.Errorf("Expected %d log messages, got %d", model.maxLogMessages, len(model.logMessages))
	}
	if model.logMessages[0].Message != "message 10" {
		t.Errorf("Expected oldest kept message to be 'message 10', got %q", model.logMessages[0].Message)
	}
}

func TestModelFinish(t *testing.T) {
	model := NewModel()

	model.Finish(calllog.Stats{Pages: 3, Processed: 12, Deleted: 10, Skipped: 1, Failed: 1})

	if !model.done {
		t.Error("Expected model to be done after Finish")
	}
	if model.stats.Deleted != 10 {
		t.Errorf("Expected final stats to be stored, got %d deleted", model.stats.Deleted)
	}
	lastLog := model.logMessages[len(model.logMessages)-1]
	if !strings.Contains(lastLog.Message, "Run complete") {
		t.Errorf("Expected completion log message, got %q", lastLog.Message)
	}
}

func TestHandleKeyPress(t *testing.T) {
	model := NewModel()

	// Pause toggles and logs
	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if !model.isPaused {
		t.Error("Expected p to pause")
	}
	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if model.isPaused {
		t.Error("Expected second p to resume")
	}

	// Help toggles
	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	if !model.showHelp {
		t.Error("Expected ? to show help")
	}

	// ctrl+l clears logs
	model.AddLogMessage("INFO", "something")
	model.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if len(model.logMessages) != 0 {
		t.Errorf("Expected ctrl+l to clear logs, got %d messages", len(model.logMessages))
	}

	// q quits
	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("Expected q to produce a quit command")
	}
}

func TestAnyKeyQuitsAfterDone(t *testing.T) {
	model := NewModel()
	model.Finish(calllog.Stats{})

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if cmd == nil {
		t.Error("Expected any key to quit once the run is done")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{-time.Second, "00:00"},
		{42 * time.Second, "00:42"},
		{5 * time.Minute, "05:00"},
		{90 * time.Minute, "01:30:00"},
		{3*time.Hour + 4*time.Minute + 5*time.Second, "03:04:05"},
	}

	for _, test := range tests {
		result := formatDuration(test.duration)
		if result != test.expected {
			t.Errorf("formatDuration(%v) = %s, expected %s", test.duration, result, test.expected)
		}
	}
}
