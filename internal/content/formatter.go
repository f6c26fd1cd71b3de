// Package content turns a validated fact set into the markdown brief
// handed to the rendering service. Formatting is pure: the same facts
// always produce the same bytes.
package content

import (
	"strings"

	"github.com/quantmind-br/deckgen-go/internal/domain"
)

// Format renders the fact set as a markdown document with one section
// per slide-worthy topic.
func Format(fs *domain.FactSet) string {
	var sb strings.Builder

	sb.WriteString("# " + fs.ProjectName + "\n")
	sb.WriteString(fs.Tagline + "\n\n")

	writeSection(&sb, "The Problem", fs.Problem)
	writeSection(&sb, "Our Solution", fs.Solution)
	writeSection(&sb, "Tech Stack", strings.Join(fs.TechStack, ", "))
	writeBulletSection(&sb, "Key Features", fs.KeyFeatures)
	writeSection(&sb, "Innovation", fs.Innovation)
	writeSection(&sb, "Architecture", fs.Architecture)
	writeBulletSection(&sb, "What We'll Demo", fs.DemoHighlights)
	writeBulletSection(&sb, "Future Roadmap", fs.FutureScope)

	return strings.TrimSpace(sb.String())
}

func writeSection(sb *strings.Builder, title, body string) {
	sb.WriteString("## " + title + "\n")
	sb.WriteString(body + "\n\n")
}

func writeBulletSection(sb *strings.Builder, title string, items []string) {
	sb.WriteString("## " + title + "\n")
	for _, item := range items {
		sb.WriteString("- " + item + "\n")
	}
	sb.WriteString("\n")
}
