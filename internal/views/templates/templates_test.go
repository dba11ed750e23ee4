package templates

import (
	"testing"

	"github.com/blastline/console/internal/api"
)

func TestApplyStatus(t *testing.T) {
	m := New(nil)
	m.templates = []api.Template{
		{ID: "t1", Name: "welcome", Status: api.TemplatePending},
		{ID: "t2", Name: "promo", Status: api.TemplatePending},
	}

	m.ApplyStatus(api.TemplateStatusPayload{TemplateID: "t2", Status: api.TemplateApproved})
	if m.templates[1].Status != api.TemplateApproved {
		t.Errorf("t2 status = %s, want approved", m.templates[1].Status)
	}
	if m.templates[0].Status != api.TemplatePending {
		t.Errorf("decision leaked to t1: %s", m.templates[0].Status)
	}

	// Unknown ids are ignored.
	m.ApplyStatus(api.TemplateStatusPayload{TemplateID: "zzz", Status: api.TemplateRejected})
	if len(m.templates) != 2 {
		t.Errorf("len = %d, want 2", len(m.templates))
	}
}

func TestClampCursor(t *testing.T) {
	m := New(nil)
	m.templates = []api.Template{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	m.cursor = 2

	// A shorter list after sync must pull the cursor back in range.
	m.templates = m.templates[:1]
	m.clampCursor()
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}

	m.templates = nil
	m.clampCursor()
	if m.cursor != 0 {
		t.Errorf("cursor on empty list = %d, want 0", m.cursor)
	}
}
