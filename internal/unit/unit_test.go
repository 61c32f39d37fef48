package unit

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	d := Definition{
		Name:             "imagebot",
		Description:      "Telegram image bot",
		User:             "imagebot",
		Group:            "imagebot",
		WorkingDirectory: "/opt/imagebot",
		EnvironmentFile:  "/etc/default/imagebot",
		ExecStart:        "/opt/imagebot/venv/bin/python /opt/imagebot/bot.py",
		Restart:          "always",
		RestartSec:       5,
	}
	out := d.Render()

	for _, want := range []string{
		"Description=Telegram image bot\n",
		"User=imagebot\n",
		"Group=imagebot\n",
		"WorkingDirectory=/opt/imagebot\n",
		"EnvironmentFile=/etc/default/imagebot\n",
		"ExecStart=/opt/imagebot/venv/bin/python /opt/imagebot/bot.py\n",
		"Restart=always\n",
		"RestartSec=5\n",
		"WantedBy=multi-user.target\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered unit missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "TELEGRAM_TOKEN") {
		t.Fatalf("unit must not embed secrets:\n%s", out)
	}
}

func TestFileName(t *testing.T) {
	if got := (Definition{Name: "imagebot"}).FileName(); got != "imagebot.service" {
		t.Fatalf("got %q", got)
	}
}
