package knowledge

// LeafInfo describes the herbal uses of one recognized leaf and the skin
// conditions it is traditionally associated with treating.
type LeafInfo struct {
	Uses     string   `json:"uses"`
	Diseases []string `json:"diseases"`
}

// LeafClassNames is the ordered list of classes the leaf model was trained
// on. The model's output index maps directly into this slice.
var LeafClassNames = []string{
	"Aloevera", "Amruthaballi", "Arali", "Bhrami", "Curry leaves", "Doddpathre", "Hibiscus",
	"Mint", "Neem", "Tulsi", "Turmeric", "Unknown",
}

var leafInfo = map[string]LeafInfo{
	"Aloevera":     {Uses: "Soothes burns, reduces scars, hydrates skin, and promotes wound healing.", Diseases: []string{"Eczema", "Psoriasis", "Acne", "Skin ulcers", "Sunburn", "Dry skin"}},
	"Amruthaballi": {Uses: "Detoxifies blood and reduces skin allergies.", Diseases: []string{"Skin rashes", "Skin allergies"}},
	"Tulsi":        {Uses: "Has antibacterial properties for skin health.", Diseases: []string{"Acne", "Skin infections"}},
	"Neem":         {Uses: "Powerful antimicrobial, treats many skin conditions.", Diseases: []string{"Eczema", "Acne", "Psoriasis", "Ringworm", "Scabies", "Fungal infections"}},
	"Mint":         {Uses: "Cools and refreshes skin.", Diseases: []string{"Acne", "Skin irritation"}},
	"Turmeric":     {Uses: "Natural anti-inflammatory for skin issues.", Diseases: []string{"Eczema", "Psoriasis", "Skin infections", "Wounds", "Acne scars"}},
	"Ginger":       {Uses: "Improves skin elasticity and reduces inflammation.", Diseases: []string{"Inflammatory skin conditions", "Skin aging"}},
	"Lemon":        {Uses: "Lightens pigmentation and reduces acne scars.", Diseases: []string{"Hyperpigmentation", "Acne scars", "Oily skin"}},
	"Guava":        {Uses: "Improves skin texture and prevents premature aging.", Diseases: []string{"Skin aging", "Wrinkles"}},
	"Henna":        {Uses: "Cools skin and treats fungal issues.", Diseases: []string{"Fungal skin infections", "Skin rashes", "Burns"}},
	"Hibiscus":     {Uses: "Rejuvenates skin and reduces aging signs.", Diseases: []string{"Wrinkles", "Skin aging"}},
	"Rose":         {Uses: "Improves skin glow and soothes irritation.", Diseases: []string{"Acne", "Dry skin", "Skin irritation"}},
	"Ashoka":       {Uses: "Has properties for skin rejuvenation.", Diseases: []string{"Skin pigmentation", "Premature aging"}},
	"Curry leaves": {Uses: "Nourishes skin and prevents dryness.", Diseases: []string{"Dry skin"}},
	"Arali":        {Uses: "Reduces inflammation, soothes rashes and promotes wound healing.", Diseases: []string{"Eczema", "Ringworm", "Minor Wounds"}},
	"Doddpathre":   {Uses: "Soothes the skin and reduces itching, redness and microbial infections.", Diseases: []string{"Skin rashes", "Eczema", "Ringworm"}},
}

// LeafLookup returns the herbal info for a leaf name. Unrecognized names get
// a placeholder entry with an empty disease list.
func LeafLookup(name string) LeafInfo {
	if info, ok := leafInfo[name]; ok {
		return info
	}
	return LeafInfo{Uses: "No info", Diseases: []string{}}
}
