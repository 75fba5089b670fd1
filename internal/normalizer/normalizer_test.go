package normalizer_test

import (
	"testing"

	"github.com/mydehq/plexify/internal/normalizer"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		wantTitle string
		wantYear  string
	}{
		{
			name:      "Dotted with year",
			filename:  "Avengers.Endgame.2019.mkv",
			wantTitle: "Avengers Endgame",
			wantYear:  "2019",
		},
		{
			name:      "Lowercase without year",
			filename:  "avengers.endgame.mov",
			wantTitle: "Avengers Endgame",
		},
		{
			name:      "Punctuation stripped",
			filename:  "Mr.Robot's.Movie!.1999.mp4",
			wantTitle: "Mr Robots Movie",
			wantYear:  "1999",
		},
		{
			name:      "Year not last is kept",
			filename:  "Blade.Runner.2049.1080p.mkv",
			wantTitle: "Blade Runner 2049 1080p",
		},
		{
			name:      "Underscores are not separators",
			filename:  "toy_story.mp4",
			wantTitle: "Toystory",
		},
		{
			name:      "Path prefix ignored",
			filename:  "/movies/Inception/inception.mkv",
			wantTitle: "Inception",
		},
		{
			name:      "Empty parts collapsed",
			filename:  "The..Matrix...1999.avi",
			wantTitle: "The Matrix",
			wantYear:  "1999",
		},
		{
			name:      "Only a year",
			filename:  "2019.mkv",
			wantTitle: "",
			wantYear:  "2019",
		},
		{
			name:     "Nothing usable",
			filename: "!!!.mkv",
		},
		{
			name:     "Empty string",
			filename: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizer.Normalize(tt.filename)
			if got.Title != tt.wantTitle {
				t.Errorf("Normalize(%q).Title = %q; want %q", tt.filename, got.Title, tt.wantTitle)
			}
			if got.Year != tt.wantYear {
				t.Errorf("Normalize(%q).Year = %q; want %q", tt.filename, got.Year, tt.wantYear)
			}
		})
	}
}

func TestNormalize_EmptyCandidate(t *testing.T) {
	if c := normalizer.Normalize("...."); !c.Empty() {
		t.Errorf("Normalize(%q) = %+v; want empty candidate", "....", c)
	}
}

func TestNormalize_YearAlwaysDropped(t *testing.T) {
	words := [][]string{
		{"the", "dark", "knight"},
		{"heat"},
		{"a", "quiet", "place", "part", "ii"},
	}
	for _, w := range words {
		for _, year := range []string{"1972", "2008", "2024"} {
			filename := ""
			for _, part := range w {
				filename += part + "."
			}
			filename += year + ".mkv"

			got := normalizer.Normalize(filename)
			want := normalizer.TitleCase(join(w))
			if got.Title != want || got.Year != year {
				t.Errorf("Normalize(%q) = %+v; want {%q %q}", filename, got, want, year)
			}
		}
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"avengers endgame", "Avengers Endgame"},
		{"avengers.endgame", "Avengers.endgame"},
		{"already Upper", "Already Upper"},
		{"keep  spacing", "Keep  Spacing"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizer.TitleCase(tt.in); got != tt.want {
			t.Errorf("TitleCase(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func join(words []string) string {
	out := ""
	for i, w := range words {
		if i > 0 {
			out += " "
		}
		out += w
	}
	return out
}
