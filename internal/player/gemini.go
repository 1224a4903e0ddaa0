package player

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/memory-bomb/internal/engine"
	"github.com/tatianab/memory-bomb/internal/models"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/respond.txt
var respondPrompt string

var respondTemplate = template.Must(template.New("respond").Parse(respondPrompt))

// Gemini asks a Gemini model to play.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini player needs GEMINI_API_KEY")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel("gemini-2.5-flash")
	model.SetTemperature(0)
	return &Gemini{
		client: client,
		model:  model,
	}, nil
}

func (g *Gemini) Close() {
	g.client.Close()
}

func (g *Gemini) Respond(ctx context.Context, c Challenge) (models.Sequence, error) {
	prompt, err := renderPrompt(c)
	if err != nil {
		return nil, err
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content returned from Gemini")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected response type from Gemini")
	}
	return parseAnswer(string(text), c.AlphabetSize)
}

func renderPrompt(c Challenge) (string, error) {
	shown := make([]string, len(c.Sequence))
	for i, s := range c.Sequence {
		shown[i] = symbolNumber(s)
	}

	var buf bytes.Buffer
	data := struct {
		AlphabetSize int
		Sequence     string
		Rule         string
	}{
		AlphabetSize: c.AlphabetSize,
		Sequence:     strings.Join(shown, ", "),
		Rule:         engine.Describe(c.Modifier, symbolNumber),
	}
	if err := respondTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func symbolNumber(s models.Symbol) string {
	return fmt.Sprint(int(s) + 1)
}

// parseAnswer reads the model's YAML answer, numbered from 1, into symbols.
func parseAnswer(text string, alphabetSize int) (models.Sequence, error) {
	cleanYAML := strings.TrimSpace(text)
	cleanYAML = strings.TrimPrefix(cleanYAML, "```yaml")
	cleanYAML = strings.TrimPrefix(cleanYAML, "```")
	cleanYAML = strings.TrimSuffix(cleanYAML, "```")

	var result struct {
		Answer []int `yaml:"answer"`
	}
	if err := yaml.Unmarshal([]byte(cleanYAML), &result); err != nil {
		return nil, fmt.Errorf("failed to parse answer YAML: %w\nOutput was: %s", err, cleanYAML)
	}

	seq := make(models.Sequence, 0, len(result.Answer))
	for _, n := range result.Answer {
		if n < 1 || n > alphabetSize {
			return nil, fmt.Errorf("answer symbol %d outside 1..%d", n, alphabetSize)
		}
		seq = append(seq, models.Symbol(n-1))
	}
	return seq, nil
}
