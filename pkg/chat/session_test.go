package chat

import (
	"encoding/json"
	"testing"
)

func TestMessageStringMarshalsFlatComponent(t *testing.T) {
	msg := Colored("hello", "red")
	var decoded map[string]any
	if err := json.Unmarshal([]byte(msg.String()), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["text"] != "hello" || decoded["color"] != "red" {
		t.Fatalf("unexpected component: %v", decoded)
	}
}

func TestSystemUsesGrayColor(t *testing.T) {
	msg := System("feedback")
	if msg.Color != "gray" || msg.Text != "feedback" {
		t.Fatalf("expected gray system message, got %+v", msg)
	}
}

func TestJoinMessageIncludesNameOnce(t *testing.T) {
	msg := JoinMessage("Steve")
	var nameCount int
	if msg.Text == "Steve" {
		nameCount++
	}
	for _, e := range msg.Extra {
		if e.Text == "Steve" {
			nameCount++
		}
	}
	if nameCount != 1 {
		t.Fatalf("expected player name rendered exactly once, got %d", nameCount)
	}
}

func TestLeaveMessageIncludesNameOnce(t *testing.T) {
	msg := LeaveMessage("Alex")
	var nameCount int
	if msg.Text == "Alex" {
		nameCount++
	}
	for _, e := range msg.Extra {
		if e.Text == "Alex" {
			nameCount++
		}
	}
	if nameCount != 1 {
		t.Fatalf("expected player name rendered exactly once, got %d", nameCount)
	}
}
