package catalog

import (
	"strings"
)

// Style is a decorating aesthetic offered in the picker.
type Style struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Emoji    string `json:"emoji"`
	Color    string `json:"color"`
	Prompt   string `json:"-"`
	Keywords string `json:"-"`
}

// Room is a space type the user is decorating.
type Room struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// FallbackKeywords steers image generation when a style carries no keyword fragment.
const FallbackKeywords = "modern interior design"

var styles = []Style{
	{
		ID: "modern-heritage", Label: "Modern Heritage", Emoji: "\U0001F3DB️", Color: "#C4A882",
		Prompt:   "Modern Heritage blends contemporary clean lines with traditional craftsmanship - handmade ceramics, artisan metals, and quiet luxury details that honor enduring quality.",
		Keywords: "modern heritage interior design, warm oak wood, handmade ceramics, artisan brass hardware, quiet luxury craftsmanship, enduring quality materials",
	},
	{
		ID: "warm-minimalism", Label: "Warm Minimalism", Emoji: "\U0001F56F️", Color: "#E8D5B7",
		Prompt:   "Warm Minimalism emphasizes restraint with warmth - sun-faded palettes, natural linen, plaster walls, purposeful objects, and inviting deep-seated furniture designed for lingering.",
		Keywords: "warm minimalist interior, sun-faded neutral palette, natural linen textiles, plaster walls, deep comfortable seating, soft diffused warm light, purposeful minimal decor",
	},
	{
		ID: "organic-luxe", Label: "Organic Luxe", Emoji: "\U0001F33F", Color: "#A8C5A0",
		Prompt:   "Organic Luxe marries raw natural forms with high-end finishes - live-edge walnut tables, veined marble accent walls, travertine surfaces, and sculptural stone furniture.",
		Keywords: "organic luxury interior, live-edge walnut furniture, veined marble accent wall, travertine stone surfaces, sculptural stone pieces, earthy linen drapes, high-end natural finishes",
	},
	{
		ID: "collected-eclecticism", Label: "Collected Eclecticism", Emoji: "\U0001F3A8", Color: "#D4A8D4",
		Prompt:   "Collected Eclecticism celebrates personal storytelling through curated objects from different eras - mixing vintage finds, artisan pieces, meaningful heirlooms, and global textiles with intentional cohesion.",
		Keywords: "eclectic collected interior design, mixed vintage and modern furniture, personal art collection, global textiles, layered patterns at different scales, meaningful curated objects, warm lived-in atmosphere",
	},
	{
		ID: "biophilic", Label: "Biophilic Design", Emoji: "\U0001F343", Color: "#8FC6A0",
		Prompt:   "Biophilic Design integrates nature holistically - circadian-aligned lighting, living walls, natural wood, mindful material choices, and landscape art that deepens the connection to the outdoors.",
		Keywords: "biophilic interior design, lush living plant walls, circadian lighting, natural wood elements, landscape art, abundant tropical greenery, floor-to-ceiling windows, organic shapes",
	},
	{
		ID: "dark-wood-revival", Label: "Dark Wood Revival", Emoji: "\U0001FAB5", Color: "#B8926A",
		Prompt:   "Dark Wood Revival embraces rich walnut, espresso oak, and burl wood to add dramatic depth - dark-stained cabinetry, wood-paneled walls, and artisanal brass hardware replacing matte black.",
		Keywords: "dark wood interior design, rich walnut paneled walls, espresso oak cabinetry, burl wood accents, patinaed brass fixtures, deep warm wood tones, dramatic depth and character",
	},
	{
		ID: "sculptural", Label: "Sculptural & Curved", Emoji: "\U0001FAE7", Color: "#C8D8E8",
		Prompt:   "Sculptural & Curved Forms feature tailored rounded sofas, arched niches, organic furniture silhouettes, and refined plaster walls - comfort with cleaner, more intentional lines.",
		Keywords: "sculptural curved interior design, tailored rounded sofa, arched doorways, organic furniture silhouettes, refined warm plaster walls, curved forms with clean intentional lines",
	},
	{
		ID: "art-deco", Label: "Art Deco Reimagined", Emoji: "\U0001F48E", Color: "#F0D080",
		Prompt:   "Art Deco Reimagined brings geometric glamour updated for 2026 - chevron inlays, lacquered surfaces, dusty jewel-tone velvets, patinaed brass, and streamlined elegance.",
		Keywords: "art deco reimagined interior design, patinaed brass fixtures, chevron marble flooring, dusty jewel tone velvet upholstery, lacquered surfaces, streamlined geometric glamour",
	},
	{
		ID: "color-capping", Label: "Color Capping", Emoji: "\U0001F308", Color: "#9090C8",
		Prompt:   "Color Capping uses tonal gradients within one color family - darkest on the ceiling, medium on walls, lightest at floor level - creating immersive, sophisticated depth without monotony.",
		Keywords: "color capped interior, tonal gradient walls from dark ceiling to lighter lower walls, immersive single color family, sophisticated depth, dramatic atmospheric lighting, deep muted tones",
	},
	{
		ID: "tactile", Label: "Tactile Textures", Emoji: "\U0001F9F5", Color: "#D4C4B4",
		Prompt:   "Tactile Textures create layered sensory richness - limewash walls, plush velvet, natural woven fibers, textured glass, reclaimed wood, and fabric wall tapestries as art.",
		Keywords: "tactile texture interior design, plush velvet sofa, limewash walls, woven natural fiber accents, textured art glass, fabric wall tapestry, reclaimed wood, layered natural textures",
	},
	{
		ID: "japandi", Label: "Japandi Zen", Emoji: "⛩️", Color: "#C8BEB0",
		Prompt:   "Japandi Zen fuses Japanese wabi-sabi and Scandinavian hygge - functional simplicity, muted warm tones, handcrafted solid wood, and aged organic materials.",
		Keywords: "japandi interior design, wabi-sabi aesthetics, muted warm neutral tones, handcrafted solid wood furniture, aged organic materials, zen minimalism, natural fiber rugs",
	},
	{
		ID: "earthy-romanticism", Label: "Earthy Romanticism", Emoji: "\U0001F339", Color: "#D4A0A0",
		Prompt:   "Earthy Romanticism features chalky rose, sunbaked terracotta, dusty sapphire, and muted cranberry - hand-painted furniture, whimsical embellishments, soft warmth, and nature-inspired romance.",
		Keywords: "earthy romantic interior design, chalky rose and terracotta palette, hand-painted furniture details, whimsical embellishments, dusty jewel tones, soft warm textiles, nature-inspired romantic atmosphere",
	},
}

var rooms = []Room{
	{ID: "living-room", Label: "Living Room", Icon: "\U0001F6CB️"},
	{ID: "kitchen", Label: "Kitchen", Icon: "\U0001F373"},
	{ID: "bathroom", Label: "Bathroom", Icon: "\U0001F6C1"},
	{ID: "bedroom", Label: "Bedroom", Icon: "\U0001F6CF️"},
	{ID: "dining-room", Label: "Dining Room", Icon: "\U0001F37D️"},
	{ID: "home-office", Label: "Home Office", Icon: "\U0001F4BC"},
	{ID: "outdoor", Label: "Outdoor / Patio", Icon: "\U0001F333"},
	{ID: "entryway", Label: "Entryway", Icon: "\U0001F6AA"},
}

// Styles returns the style catalog in display order.
func Styles() []Style {
	out := make([]Style, len(styles))
	copy(out, styles)
	return out
}

// Rooms returns the room catalog in display order.
func Rooms() []Room {
	out := make([]Room, len(rooms))
	copy(out, rooms)
	return out
}

// LookupStyle finds a style by identifier.
func LookupStyle(id string) (Style, bool) {
	id = strings.TrimSpace(id)
	for _, s := range styles {
		if s.ID == id {
			return s, true
		}
	}
	return Style{}, false
}

// LookupRoom finds a room by identifier.
func LookupRoom(id string) (Room, bool) {
	id = strings.TrimSpace(id)
	for _, r := range rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}

// ImageKeywords returns the generation keywords for the style, or the generic fallback.
func (s Style) ImageKeywords() string {
	if kw := strings.TrimSpace(s.Keywords); kw != "" {
		return kw
	}
	return FallbackKeywords
}
