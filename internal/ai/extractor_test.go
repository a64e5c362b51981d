package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/karripar/va-backend-sub000/internal/domain"
)

type fakeCompletion struct {
	content string
	err     error
	lastReq openai.ChatCompletionRequest
}

func (f *fakeCompletion) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func TestParseRecords(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []domain.DestinationRecord
		wantErr bool
	}{
		{
			name: "plain array",
			raw:  `[{"country":"France","title":"Sorbonne","link":"http://example.edu"}]`,
			want: []domain.DestinationRecord{{Country: "France", Title: "Sorbonne", Link: "http://example.edu"}},
		},
		{
			name: "fenced with json tag",
			raw:  "```json\n[{\"country\":\"France\",\"title\":\"Sorbonne\",\"link\":\"\"}]\n```",
			want: []domain.DestinationRecord{{Country: "France", Title: "Sorbonne", Link: ""}},
		},
		{
			name: "fenced without tag",
			raw:  "```\n[]\n```",
			want: []domain.DestinationRecord{},
		},
		{
			name:    "not an array",
			raw:     `{"country":"France","title":"Sorbonne","link":""}`,
			wantErr: true,
		},
		{
			name:    "non-string field",
			raw:     `[{"country":"France","title":42,"link":""}]`,
			wantErr: true,
		},
		{
			name:    "missing field",
			raw:     `[{"country":"France","title":"Sorbonne"}]`,
			wantErr: true,
		},
		{
			name:    "garbage",
			raw:     "sorry, I cannot do that",
			wantErr: true,
		},
		{
			name:    "null literal",
			raw:     `null`,
			wantErr: true,
		},
		{
			name:    "fenced null literal",
			raw:     "```\nnull\n```",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecords(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRecords error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d records, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("record %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExtractorExtract(t *testing.T) {
	fake := &fakeCompletion{content: `[{"country":"Sweden","title":"KTH","link":""}]`}
	e := NewExtractor(fake, "")

	got, err := e.Extract(context.Background(), "Europe", "<ul><li>KTH</li></ul>", "Sweden")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(got) != 1 || got[0].Country != "Sweden" {
		t.Fatalf("unexpected records: %+v", got)
	}

	if fake.lastReq.Model != DefaultModel {
		t.Errorf("model = %q, want %q", fake.lastReq.Model, DefaultModel)
	}
	if fake.lastReq.Temperature != 0 {
		t.Errorf("temperature = %v, want 0", fake.lastReq.Temperature)
	}
	prompt := fake.lastReq.Messages[0].Content
	for _, fragment := range []string{"Europe", "Sweden", "<ul><li>KTH</li></ul>"} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt does not contain %q", fragment)
		}
	}
}

func TestExtractorExtractFailures(t *testing.T) {
	t.Run("client error propagates", func(t *testing.T) {
		e := NewExtractor(&fakeCompletion{err: errors.New("rate limited")}, "")
		if _, err := e.Extract(context.Background(), "Europe", "<p></p>", "France"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("malformed output is a hard error", func(t *testing.T) {
		e := NewExtractor(&fakeCompletion{content: "not json"}, "")
		if _, err := e.Extract(context.Background(), "Europe", "<p></p>", "France"); err == nil {
			t.Error("expected error")
		}
	})
}
