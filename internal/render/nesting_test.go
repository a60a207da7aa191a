package render

import "testing"

func TestNestMarkdown(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "drops_title_and_bumps_sections",
			input:    "\n# Widgets\n\nIntro\n\n## Usage\n### Flags\n",
			expected: "Intro\n\n#### Usage\n##### Flags",
		},
		{
			name:     "keeps_code_fences",
			input:    "## Build\n```sh\n# comment\n```\n",
			expected: "#### Build\n```sh\n# comment\n```",
		},
		{
			name:     "caps_heading_level",
			input:    "#### Deep\n##### Deeper",
			expected: "###### Deep\n###### Deeper",
		},
		{
			name:     "ignores_hashtags",
			input:    "#hashtag\nplain",
			expected: "#hashtag\nplain",
		},
		{
			name:     "keeps_later_top_level_heading",
			input:    "Text first\n# Later",
			expected: "Text first\n### Later",
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			if actual := nestMarkdown(testCase.input); actual != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, actual)
			}
		})
	}
}
