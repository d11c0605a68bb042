// Package script turns a historical event into narration text and an image
// generation prompt.
//
// Both generators are pure: randomness is limited to picking one of a fixed
// set of hooks or styles, and the choice is injectable for tests.
package script

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"chronoreel/internal/services/wikipedia"
)

// Generator produces narration scripts and image prompts for events.
type Generator struct {
	pick func(n int) int
	now  func() time.Time
}

// Option customizes the generator.
type Option func(*Generator)

// WithPicker overrides hook/style selection (used in tests).
func WithPicker(pick func(n int) int) Option {
	return func(g *Generator) {
		if pick != nil {
			g.pick = pick
		}
	}
}

// WithClock overrides the wall clock used for the years-ago hook.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGenerator constructs a script generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{pick: rand.IntN, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

const closingLine = "This is history that deserves to be remembered."

// Script renders the narration text for an event: a hook, the title, the
// extract, and a fixed closing line.
func (g *Generator) Script(event wikipedia.Event) string {
	hooks := []string{
		fmt.Sprintf("In %s, something happened that changed everything.", event.Year),
		fmt.Sprintf("Most people don't know what really happened in %s.", event.Year),
		fmt.Sprintf("This moment in %s shaped our world forever.", event.Year),
		fmt.Sprintf("What you're about to hear happened %s years ago.", g.yearsAgo(event.Year)),
		fmt.Sprintf("The year was %s. Nobody saw this coming.", event.Year),
	}
	hook := hooks[g.pick(len(hooks))]

	var b strings.Builder
	b.WriteString(hook)
	b.WriteString("\n\n")
	b.WriteString(event.Title)
	b.WriteString(".\n\n")
	b.WriteString(event.Extract)
	b.WriteString("\n\n")
	b.WriteString(closingLine)
	return b.String()
}

var imageStyles = []string{
	"dramatic oil painting style",
	"vintage photograph style",
	"epic cinematic scene",
	"historical illustration",
	"dramatic black and white photography",
}

// ImagePrompt renders the image generation prompt for an event.
func (g *Generator) ImagePrompt(event wikipedia.Event) string {
	style := imageStyles[g.pick(len(imageStyles))]
	return fmt.Sprintf("%s, %s, %s, historical scene, dramatic lighting, detailed, cinematic composition",
		event.Title, event.Year, style)
}

// yearsAgo renders the distance from year to now, or "many" for unparseable
// years ("Unknown" included).
func (g *Generator) yearsAgo(year string) string {
	parsed, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return "many"
	}
	return strconv.Itoa(g.now().Year() - parsed)
}
