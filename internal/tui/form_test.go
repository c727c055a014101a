package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeInto(m formModel, text string) formModel {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(formModel)
}

func press(m formModel, key tea.KeyType) formModel {
	next, _ := m.Update(tea.KeyMsg{Type: key})
	return next.(formModel)
}

func TestFormModel_SubmitsValuesInOrder(t *testing.T) {
	m := newFormModel("PayPay login", "", []Field{
		{Label: "Phone", Required: true},
		{Label: "Password", Secret: true, Required: true},
	})

	m = typeInto(m, " 09012345678 ")
	m = press(m, tea.KeyEnter)
	if m.focus != 1 {
		t.Fatalf("focus = %d after enter, want 1", m.focus)
	}
	m = typeInto(m, "pass word")
	m = press(m, tea.KeyEnter)

	if !m.submitted {
		t.Fatal("form not submitted")
	}
	got := m.values()
	if got[0] != "09012345678" || got[1] != "pass word" {
		t.Fatalf("values = %q", got)
	}
	if strings.Contains(newFormModel("t", "", []Field{{Label: "P", Secret: true, Value: "hunter2"}}).View(), "hunter2") {
		t.Fatal("secret value rendered in clear text")
	}
}

func TestFormModel_RequiredField(t *testing.T) {
	m := newFormModel("Confirm", "", []Field{{Label: "Link", Required: true}})
	m = press(m, tea.KeyEnter)
	if m.submitted {
		t.Fatal("submitted with blank required field")
	}
	if !strings.Contains(m.err, "Link is required") {
		t.Fatalf("err = %q", m.err)
	}
}

func TestFormModel_Cancel(t *testing.T) {
	m := newFormModel("Confirm", "", []Field{{Label: "Link"}})
	m = press(m, tea.KeyEsc)
	if !m.cancelled || m.submitted {
		t.Fatalf("cancelled = %t submitted = %t", m.cancelled, m.submitted)
	}
}

func TestFormModel_FocusWraps(t *testing.T) {
	m := newFormModel("t", "", []Field{{Label: "A"}, {Label: "B"}})
	m = press(m, tea.KeyShiftTab)
	if m.focus != 1 {
		t.Fatalf("focus = %d, want wrap to 1", m.focus)
	}
	m = press(m, tea.KeyTab)
	if m.focus != 0 {
		t.Fatalf("focus = %d, want wrap to 0", m.focus)
	}
}
