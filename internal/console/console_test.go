package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		in   string
		want language.Tag
	}{
		{"", language.English},
		{"en", language.English},
		{"en-GB", language.English},
		{"cs", language.Czech},
		{"cs-CZ", language.Czech},
		{"ja", language.English},
		{"???", language.English},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Match(tt.in); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPrinter_Messages(t *testing.T) {
	tests := []struct {
		name  string
		lang  string
		print func(p *Printer)
		want  []string
	}{
		{
			name:  "english banner",
			lang:  "en",
			print: func(p *Printer) { p.Banner("/srv/site", "http://localhost:8000") },
			want: []string{
				"Serving /srv/site",
				"Server running at http://localhost:8000",
				"Press Ctrl+C to stop",
			},
		},
		{
			name:  "czech banner",
			lang:  "cs",
			print: func(p *Printer) { p.Banner("/srv/site", "http://localhost:8000") },
			want: []string{
				"Servíruji /srv/site",
				"Server běží na http://localhost:8000",
				"Pro ukončení stiskněte Ctrl+C",
			},
		},
		{
			name:  "english port in use",
			lang:  "en",
			print: func(p *Printer) { p.PortInUse(8000) },
			want: []string{
				"Error: port 8000 is already in use.",
				"Try stopping other applications using this port.",
			},
		},
		{
			name:  "czech port in use",
			lang:  "cs",
			print: func(p *Printer) { p.PortInUse(8000) },
			want: []string{
				"Chyba: Port 8000 je obsazený.",
				"Zkuste vypnout jiné aplikace běžící na tomto portu.",
			},
		},
		{
			name:  "startup failed",
			lang:  "en",
			print: func(p *Printer) { p.StartupFailed(errors.New("listen tcp: permission denied")) },
			want:  []string{"Error starting server: listen tcp: permission denied"},
		},
		{
			name:  "czech shutdown",
			lang:  "cs",
			print: func(p *Printer) { p.Shutdown() },
			want:  []string{"Končím, vypínám server..."},
		},
		{
			name:  "fallback to english",
			lang:  "de",
			print: func(p *Printer) { p.Shutdown() },
			want:  []string{"Shutting down..."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(New(&buf, tt.lang, false))

			got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines %q, want %d", len(got), got, len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPrinter_Colored(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "en", true).Shutdown()

	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI escape in colored output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "Shutting down...") {
		t.Errorf("message missing from colored output: %q", buf.String())
	}
}

func TestPrinter_Language(t *testing.T) {
	if got := New(&bytes.Buffer{}, "cs", false).Language(); got != language.Czech {
		t.Errorf("Language() = %v, want cs", got)
	}
}
