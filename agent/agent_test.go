package agent

import (
	"context"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func TestRun_BlankInitialPromptPrintsNoExtraMarker(t *testing.T) {
	var out strings.Builder
	a := New(&out, strings.NewReader(""), NewAnalyst(nil, nil))
	// A non-nil chat keeps Run from dialing the model service.
	a.Facilitator.chat = &genai.Chat{}

	if err := a.Run(context.Background(), nil, ""); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := strings.Count(out.String(), prompt); got != 1 {
		t.Errorf("prompt marker printed %d times, want 1:\n%s", got, out.String())
	}
}
