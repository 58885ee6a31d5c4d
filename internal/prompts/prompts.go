package prompts

import (
	"fmt"
	"strings"

	"decorstudio/internal/catalog"
)

const (
	// IdeaCount is the number of ideas requested per generation.
	IdeaCount = 7
	// IdeasMaxTokens bounds the ideas completion.
	IdeasMaxTokens = 1500
)

const ideasSystemPrompt = "You are an elite interior design AI. Always respond with raw valid JSON only, no markdown, no backticks, no preamble. Just the JSON array."

const ideasUserTemplate = `Generate %d trending decor ideas for a %s in the "%s" style. Context: %s Return a JSON array. Each item: "title" (punchy 4-7 words), "description" (2-3 sentences, specific materials, colors, tips), "products" (array of 3-4 item types). Start with [ end with ]`

const photoDirective = "Photorealistic, Architectural Digest quality editorial photo, beautiful natural and warm artificial lighting, ultra-detailed"

const negativeConstraints = "no people, no text overlays"

const livingRoomBoost = "Feature this season's living room furniture trends: a low modular sofa, a sculptural coffee table and layered ambient lighting."

const mediaConsoleHint = "Since this is a living space, include a sleek wall-mounted television above a low, minimal media console that blends into the new design."

const visionDescribePrompt = "Describe this room for an interior design AI. In 3-4 sentences cover: room type, approximate size/layout, current wall color, flooring material, main furniture pieces, lighting, and current style. Be specific and concise. Only describe what you see, no advice."

const itemInventoryPrompt = "List every distinct visible object in this interior photograph: furniture, decor, lighting, textiles, plants, appliances and wall art. Respond with one comma-separated list of short item names only, no numbering, no commentary."

// Chat is a system plus user instruction pair.
type Chat struct {
	System string
	User   string
}

// Ideas builds the chat instruction that asks for the JSON array of ideas.
// The closing sentence pins the array delimiters the extractor looks for.
func Ideas(style catalog.Style, room catalog.Room) Chat {
	return Chat{
		System: ideasSystemPrompt,
		User:   fmt.Sprintf(ideasUserTemplate, IdeaCount, room.Label, style.Label, strings.TrimSpace(style.Prompt)),
	}
}

// Image builds the text-to-image prompt for an exploratory render of a room.
// Identical inputs always produce identical prompts.
func Image(style catalog.Style, roomLabel, extra string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Professional interior design photograph of a beautifully styled %s. %s.", roomLabel, style.ImageKeywords())
	if catalog.IsLivingRoomLabel(roomLabel) {
		fmt.Fprintf(&b, " %s", livingRoomBoost)
	}
	if extra = strings.TrimSpace(extra); extra != "" {
		fmt.Fprintf(&b, " %s", extra)
	}
	fmt.Fprintf(&b, " %s, %s, wide angle shot showing full room.", photoDirective, negativeConstraints)
	return b.String()
}

// Makeover builds the prompt that restyles a photographed room from its
// vision description.
func Makeover(style catalog.Style, roomDescription string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Professional interior design photograph showing a stunning %s style makeover.", style.Label)
	fmt.Fprintf(&b, " The room being redesigned: %s.", strings.TrimSuffix(strings.TrimSpace(roomDescription), "."))
	fmt.Fprintf(&b, " Apply this complete transformation: %s.", style.ImageKeywords())
	b.WriteString(" Keep the same room layout and dimensions but completely redesign all surfaces, furniture, materials and colors.")
	if catalog.SuggestsLivingRoom(roomDescription) {
		fmt.Fprintf(&b, " %s", mediaConsoleHint)
	}
	fmt.Fprintf(&b, " %s, %s, wide angle shot.", photoDirective, negativeConstraints)
	return b.String()
}

// VisionDescribe is the instruction sent with an uploaded photo.
func VisionDescribe() string {
	return visionDescribePrompt
}

// ItemInventory is the instruction that enumerates objects in a rendering.
func ItemInventory() string {
	return itemInventoryPrompt
}

// ItemRemoval builds the regeneration prompt for the item removal workflow.
// The provider has no object-level edit, so preservation of the other items
// rests on these instructions alone.
func ItemRemoval(style catalog.Style, roomLabel string, detected, remove []string) string {
	keep := withoutItems(detected, remove)

	var b strings.Builder
	fmt.Fprintf(&b, "Professional interior design photograph of a %s in the %s style (%s).", roomLabel, style.Label, style.ImageKeywords())
	if len(keep) > 0 {
		fmt.Fprintf(&b, " The room contains exactly these items, which must all stay in place and unchanged: %s.", strings.Join(keep, ", "))
	}
	fmt.Fprintf(&b, " Remove only the following items and nothing else: %s.", strings.Join(remove, ", "))
	b.WriteString(" Fill the space they leave with a plausible continuation of the surrounding floor, wall and furnishings.")
	b.WriteString(" Apart from the removed items, keep the layout, style, lighting, colors and camera angle identical.")
	fmt.Fprintf(&b, " %s, %s, wide angle shot.", photoDirective, negativeConstraints)
	return b.String()
}

// withoutItems returns the detected items that are not named for removal,
// compared case-insensitively, in their original order.
func withoutItems(detected, remove []string) []string {
	drop := make(map[string]struct{}, len(remove))
	for _, item := range remove {
		drop[strings.ToLower(strings.TrimSpace(item))] = struct{}{}
	}
	keep := make([]string, 0, len(detected))
	for _, item := range detected {
		if _, ok := drop[strings.ToLower(strings.TrimSpace(item))]; ok {
			continue
		}
		keep = append(keep, item)
	}
	return keep
}
