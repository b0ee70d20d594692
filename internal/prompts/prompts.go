package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rudrodip/whatyouwant/internal/domain"
)

// Example pairs a sample query with the expected classification, used as
// a few-shot demonstration in the prompt.
type Example struct {
	Query  string
	Result domain.ClassificationResult
}

// Taxonomy is one revision of the classification category set. The
// category set changed across site revisions (overlay paths early,
// direct_image later), so the whole thing is data, not code: the prompt
// text, the valid type enum, and the examples all come from here.
type Taxonomy struct {
	Version string
	Types   []domain.OutputType
	// Intro is the fixed task description.
	Intro string
	// Rules are human-authored trigger heuristics, one line each.
	Rules []string
	// Examples are worked query → result pairs.
	Examples []Example
	// Outro closes the instruction before the query is appended.
	Outro string
}

// Valid reports whether t is in this taxonomy's closed enum.
func (t *Taxonomy) Valid(typ domain.OutputType) bool {
	for _, v := range t.Types {
		if v == typ {
			return true
		}
	}
	return false
}

// BuildPrompt renders the full instruction string for a query: task
// description, category taxonomy with trigger heuristics, worked
// examples, and the literal query appended at the end.
func (t *Taxonomy) BuildPrompt(query string) string {
	var b strings.Builder

	b.WriteString(t.Intro)
	b.WriteString("\n\nYour output structure: { type: string, output: string } json schema\n")

	b.WriteString("Types: ")
	for i, typ := range t.Types {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, typ)
	}
	b.WriteString("\n\n")

	for _, rule := range t.Rules {
		b.WriteString(rule)
		b.WriteString("\n")
	}

	b.WriteString("\nExamples:\n")
	for i, ex := range t.Examples {
		out, _ := json.Marshal(ex.Result)
		fmt.Fprintf(&b, "%d. query: %q, response: %s\n", i+1, ex.Query, out)
	}

	b.WriteString("\n")
	b.WriteString(t.Outro)
	b.WriteString("\nHere's the query: ")
	b.WriteString(query)

	return b.String()
}

// ForVersion returns the taxonomy for a config-selected version name.
// Unknown names fall back to the latest revision.
func ForVersion(version string) *Taxonomy {
	switch version {
	case "v1":
		return TaxonomyV1
	default:
		return TaxonomyV2
	}
}

const taskIntro = `I am making a meme website, and you're the core ai behind it. Your task is to generate good structured response for me. So, basically i ask users "what do you want?", and the user responds. based on the query, i show a meme. But there are some special cases. In the meme I render "Yeh lo tumhare liye <query> leke aya hu". So its a Hindi statement, so the user query can be in hindi, please convert it to english if its not in english.`

// TaxonomyV1 is the early three-way revision: overlay assets are
// relative keys under the static asset store.
var TaxonomyV1 = &Taxonomy{
	Version: "v1",
	Types: []domain.OutputType{
		domain.TypeOverlay,
		domain.TypeEmoji,
		domain.TypeImage,
		domain.TypeOutsource,
	},
	Intro: taskIntro,
	Rules: []string{
		`Here's the list of direct image you can use:`,
		`1. https://c.tenor.com/O69qbS-sDkUAAAAC/tenor.gif`,
		`2. /special-case/enemy-meme.jpeg`,
		`3. /special-case/foodie.jpeg`,
		``,
		`If anyone tries to flirt, like they respond with "you" or kiss or hug or similar romantic query, respond with the direct image "https://c.tenor.com/O69qbS-sDkUAAAAC/tenor.gif"`,
		`If anyone tries to say something rude or cute or something villain-ish like blood, similar, respond with the direct image "/special-case/enemy-meme.jpeg"`,
		`If anyone asks for heavy food, like pizza, burger or junkfood, respond with the direct image: "/special-case/foodie.jpeg"`,
		``,
		`Here're some special cases:`,
		`query - cat / kitten or similar, respond with any one of these overlay images:`,
		`1. special-case/cat.png`,
		`2. special-case/cat-sleep.jpeg`,
		`3. special-case/cat-smol.jpeg`,
		`4. special-case/cat-upset.jpeg`,
		``,
		`If cute cat, or cute pet, or baby respond with this overlay image: special-case/pookie.jpeg`,
		`If anyone asks for cold coffee/iced coffee, respond with the overlay image: special-case/cold-coffee.png`,
		`For milkshake: special-case/milkshake.jpg`,
		`For iphone: special-case/iphone.png`,
		``,
		`And for other cases, try responding with a single emoji.`,
		`And if all the cases fails, just respond with outsource type, and query itself`,
	},
	Examples: []Example{
		{"cat", domain.ClassificationResult{Type: domain.TypeOverlay, Output: "/special-case/cat.png"}},
		{"cute cat", domain.ClassificationResult{Type: domain.TypeOverlay, Output: "/special-case/pookie.jpeg"}},
		{"cold coffee", domain.ClassificationResult{Type: domain.TypeOverlay, Output: "/special-case/cold-coffee.png"}},
		{"pizza", domain.ClassificationResult{Type: domain.TypeOverlay, Output: "/special-case/foodie.jpeg"}},
		{"you", domain.ClassificationResult{Type: domain.TypeImage, Output: "https://c.tenor.com/O69qbS-sDkUAAAAC/tenor.gif"}},
		{"laptop", domain.ClassificationResult{Type: domain.TypeEmoji, Output: "💻"}},
		{"enemy", domain.ClassificationResult{Type: domain.TypeImage, Output: "/special-case/enemy-meme.jpeg"}},
		{"tea", domain.ClassificationResult{Type: domain.TypeEmoji, Output: "🍵"}},
		{"tree", domain.ClassificationResult{Type: domain.TypeOutsource, Output: "tree"}},
		{"dog", domain.ClassificationResult{Type: domain.TypeOutsource, Output: "dog"}},
	},
	Outro: `Try your best to just use special cases, and emojis. if not then just use outsource type.`,
}

// TaxonomyV2 is the later revision: all known assets are absolute URLs
// and direct_image short-circuits compositing on the streaming path.
var TaxonomyV2 = &Taxonomy{
	Version: "v2",
	Types: []domain.OutputType{
		domain.TypeEmoji,
		domain.TypeImage,
		domain.TypeOutsource,
		domain.TypeDirectImage,
	},
	Intro: taskIntro,
	Rules: []string{
		`Here's the list of direct image you can use:`,
		`1. https://c.tenor.com/O69qbS-sDkUAAAAC/tenor.gif`,
		`2. https://whatyouwant.rdsx.dev/special-case/enemy-meme.jpeg`,
		`3. https://whatyouwant.rdsx.dev/special-case/foodie.jpeg`,
		`4. https://whatyouwant.rdsx.dev/special-case/robber.gif`,
		`5. https://whatyouwant.rdsx.dev/special-case/gf.gif`,
		`6. https://whatyouwant.rdsx.dev/special-case/soulmate.png`,
		``,
		`If anyone tries to flirt, like they respond with "you" or kiss or hug or boyfriend or similar romantic query, respond with the direct image "https://c.tenor.com/O69qbS-sDkUAAAAC/tenor.gif"`,
		`If anyone asks for gf, girlfriend, lady, woman, wife, cute girl, or female figure, respond with the direct image: "https://whatyouwant.rdsx.dev/special-case/gf.gif"`,
		`If anyone asks for soulmate, lover, partner, friend, or similar wholesome query respond with the direct image: "https://whatyouwant.rdsx.dev/special-case/soulmate.png"`,
		`If anyone tries to say something rude or cute or something villain-ish like blood, or anything that will make someone angry or similar, respond with the direct image "https://whatyouwant.rdsx.dev/special-case/enemy-meme.jpeg"`,
		`If anyone asks for heavy food, like pizza, burger, rice or heavy food, respond with the direct image: "https://whatyouwant.rdsx.dev/special-case/foodie.jpeg"`,
		`Anything related to money, or rich, or gold or diamond or similar, respond with the direct image: "https://whatyouwant.rdsx.dev/special-case/robber.gif"`,
		``,
		`Here're some special cases:`,
		`query - cat / kitten or similar, respond with any one of these images:`,
		`1. https://whatyouwant.rdsx.dev/special-case/cat.png`,
		`2. https://whatyouwant.rdsx.dev/special-case/cat-sleep.jpeg`,
		`3. https://whatyouwant.rdsx.dev/special-case/cat-smol.jpeg`,
		`4. https://whatyouwant.rdsx.dev/special-case/cat-upset.jpeg`,
		``,
		`If cute cat, or cute pet, or baby respond with this image: https://whatyouwant.rdsx.dev/special-case/pookie.jpeg`,
		`If anyone asks for cold coffee/iced coffee, respond with the image: https://whatyouwant.rdsx.dev/special-case/cold-coffee.png`,
		`For milkshake: https://whatyouwant.rdsx.dev/special-case/milkshake.jpg`,
		`For iphone: https://whatyouwant.rdsx.dev/special-case/iphone.png`,
		``,
		`And for other cases, try responding with a single emoji.`,
		`And if all the cases fails, just respond with outsource type, and query itself`,
	},
	Examples: []Example{
		{"cat", domain.ClassificationResult{Type: domain.TypeImage, Output: "https://whatyouwant.rdsx.dev/special-case/cat.png"}},
		{"cute cat", domain.ClassificationResult{Type: domain.TypeImage, Output: "https://whatyouwant.rdsx.dev/special-case/pookie.jpeg"}},
		{"cold coffee", domain.ClassificationResult{Type: domain.TypeImage, Output: "https://whatyouwant.rdsx.dev/special-case/cold-coffee.png"}},
		{"iphone", domain.ClassificationResult{Type: domain.TypeImage, Output: "https://whatyouwant.rdsx.dev/special-case/iphone.png"}},
		{"pizza", domain.ClassificationResult{Type: domain.TypeDirectImage, Output: "https://whatyouwant.rdsx.dev/special-case/foodie.jpeg"}},
		{"you", domain.ClassificationResult{Type: domain.TypeDirectImage, Output: "https://c.tenor.com/O69qbS-sDkUAAAAC/tenor.gif"}},
		{"laptop", domain.ClassificationResult{Type: domain.TypeEmoji, Output: "💻"}},
		{"enemy", domain.ClassificationResult{Type: domain.TypeDirectImage, Output: "https://whatyouwant.rdsx.dev/special-case/enemy-meme.jpeg"}},
		{"tea", domain.ClassificationResult{Type: domain.TypeEmoji, Output: "🍵"}},
		{"tree", domain.ClassificationResult{Type: domain.TypeOutsource, Output: "tree"}},
		{"dog", domain.ClassificationResult{Type: domain.TypeOutsource, Output: "dog"}},
	},
	Outro: `Try your best to just use special cases, and emojis. if not then just use outsource type.
Remember user can use "bengali" or "hindi" language. When you need to use outsource type and query is in different language than english, convert it to english so that its easier to find out the image.
MAKE SURE TO USE "outsource" TYPE WHEN YOU ARE SIMPLY USING THE QUERY AS OUTPUT.`,
}
