package prompt

import (
	"context"
	"strings"
	"testing"

	"imgbotctl/internal/provision"
)

func collect(t *testing.T, input string) (provision.SecretBundle, string) {
	t.Helper()
	var out strings.Builder
	c := &Collector{In: strings.NewReader(input), Out: &out}
	bundle, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	return bundle, out.String()
}

func TestCollectScenario(t *testing.T) {
	bundle, _ := collect(t, "TOK123\nKEYabc\n555\n\n")
	if bundle.Token != "TOK123" {
		t.Fatalf("token=%q", bundle.Token)
	}
	if bundle.APIKey != "KEYabc" {
		t.Fatalf("key=%q", bundle.APIKey)
	}
	if bundle.AdminID != 555 {
		t.Fatalf("admin=%d", bundle.AdminID)
	}
	if bundle.Model != provision.DefaultModel {
		t.Fatalf("model=%q want default %q", bundle.Model, provision.DefaultModel)
	}
}

func TestCollectModelOverride(t *testing.T) {
	bundle, _ := collect(t, "TOK123\nKEYabc\n555\ngpt-4o\n")
	if bundle.Model != "gpt-4o" {
		t.Fatalf("model=%q", bundle.Model)
	}
}

func TestCollectRepromptsEmptySecret(t *testing.T) {
	bundle, out := collect(t, "\nTOK123\nKEYabc\n555\n\n")
	if bundle.Token != "TOK123" {
		t.Fatalf("token=%q", bundle.Token)
	}
	if !strings.Contains(out, "a value is required") {
		t.Fatalf("missing reprompt notice in %q", out)
	}
}

func TestCollectRepromptsNonNumericAdminID(t *testing.T) {
	bundle, out := collect(t, "TOK123\nKEYabc\nnot-a-number\n555\n\n")
	if bundle.AdminID != 555 {
		t.Fatalf("admin=%d", bundle.AdminID)
	}
	if !strings.Contains(out, "is not an integer") {
		t.Fatalf("missing reprompt notice in %q", out)
	}
}

func TestCollectTrimsCarriageReturn(t *testing.T) {
	bundle, _ := collect(t, "TOK123\r\nKEYabc\r\n555\r\n\r\n")
	if bundle.Token != "TOK123" || bundle.Model != provision.DefaultModel {
		t.Fatalf("bundle=%+v", bundle)
	}
}

func TestCollectErrsOnTruncatedInput(t *testing.T) {
	c := &Collector{In: strings.NewReader("TOK123\n"), Out: &strings.Builder{}}
	if _, err := c.Collect(context.Background()); err == nil {
		t.Fatalf("expected error on EOF")
	}
}
