package provision

import (
	"context"
	"strings"
	"testing"
)

func envGetter(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestEnvSourceCollect(t *testing.T) {
	src := &EnvSource{Getenv: envGetter(map[string]string{
		"TELEGRAM_TOKEN":    "TOK123",
		"OPENAI_API_KEY":    "KEYabc",
		"ADMIN_TELEGRAM_ID": "555",
	})}
	bundle, err := src.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle.Token != "TOK123" || bundle.APIKey != "KEYabc" || bundle.AdminID != 555 {
		t.Fatalf("bundle=%+v", bundle)
	}
	if bundle.Model != DefaultModel {
		t.Fatalf("model=%q want default %q", bundle.Model, DefaultModel)
	}
}

func TestEnvSourceModelOverride(t *testing.T) {
	src := &EnvSource{Getenv: envGetter(map[string]string{
		"TELEGRAM_TOKEN":    "TOK123",
		"OPENAI_API_KEY":    "KEYabc",
		"ADMIN_TELEGRAM_ID": "555",
		"MODEL":             "gpt-4o",
	})}
	bundle, err := src.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle.Model != "gpt-4o" {
		t.Fatalf("model=%q", bundle.Model)
	}
}

func TestEnvSourceMissingValues(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"no token", map[string]string{}, "TELEGRAM_TOKEN"},
		{"no key", map[string]string{"TELEGRAM_TOKEN": "t"}, "OPENAI_API_KEY"},
		{"no admin", map[string]string{"TELEGRAM_TOKEN": "t", "OPENAI_API_KEY": "k"}, "ADMIN_TELEGRAM_ID"},
		{"bad admin", map[string]string{"TELEGRAM_TOKEN": "t", "OPENAI_API_KEY": "k", "ADMIN_TELEGRAM_ID": "abc"}, "not an integer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := (&EnvSource{Getenv: envGetter(tc.env)}).Collect(context.Background())
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err=%v want mention of %q", err, tc.want)
			}
		})
	}
}

func TestEnvSourceNilGetenvReadsProcessEnv(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "TOK123")
	t.Setenv("OPENAI_API_KEY", "KEYabc")
	t.Setenv("ADMIN_TELEGRAM_ID", "555")
	t.Setenv("MODEL", "")

	bundle, err := (&EnvSource{}).Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle.Token != "TOK123" || bundle.AdminID != 555 {
		t.Fatalf("bundle=%+v", bundle)
	}
	if bundle.Model != DefaultModel {
		t.Fatalf("model=%q want default", bundle.Model)
	}
}

func TestSecretBundleEnvPairs(t *testing.T) {
	bundle := SecretBundle{Token: "TOK123", APIKey: "KEYabc", AdminID: 555, Model: DefaultModel}
	pairs := bundle.EnvPairs("/opt/imagebot/bot_users.db")
	keys := make([]string, len(pairs))
	for i, p := range pairs {
		keys[i] = p.Key
	}
	want := "TELEGRAM_TOKEN,OPENAI_API_KEY,ADMIN_TELEGRAM_ID,MODEL,BOT_DB"
	if got := strings.Join(keys, ","); got != want {
		t.Fatalf("keys=%s want %s", got, want)
	}
	if pairs[2].Value != "555" {
		t.Fatalf("admin id rendered as %q", pairs[2].Value)
	}
	if pairs[4].Value != "/opt/imagebot/bot_users.db" {
		t.Fatalf("db path rendered as %q", pairs[4].Value)
	}
}
