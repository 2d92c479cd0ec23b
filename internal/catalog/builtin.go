package catalog

func BuiltinSymptoms() []Symptom {
	return []Symptom{
		{Name: "Redness"},
		{Name: "Dryness"},
		{Name: "Itching"},
		{Name: "Acne"},
		{Name: "Scaling"},
		{Name: "Rash"},
		{Name: "Pigmentation"},
		{Name: "Sensitivity"},
		{Name: "Blisters"},
		{Name: "Swelling"},
		{Name: "Flaking"},
		{Name: "Pain"},
		{Name: "Cracks"},
		{Name: "Bumps"},
	}
}

func BuiltinConditions() []Condition {
	return []Condition{
		{
			Name:      "Eczema",
			Symptoms:  symptoms("Redness", "Dryness", "Itching", "Flaking", "Cracks"),
			Treatment: []string{"Moisturize frequently", "Use gentle cleansers", "Apply hydrocortisone creams"},
		},
		{
			Name:      "Acne Vulgaris",
			Symptoms:  symptoms("Acne", "Redness", "Bumps"),
			Treatment: []string{"Use benzoyl peroxide", "Salicylic acid cleansers", "Dermatologist consultation for medications"},
		},
		{
			Name:      "Psoriasis",
			Symptoms:  symptoms("Scaling", "Redness", "Dryness", "Flaking"),
			Treatment: []string{"Coal tar or salicylic acid treatments", "Heavy moisturization", "Phototherapy"},
		},
		{
			Name:      "Melasma",
			Symptoms:  symptoms("Pigmentation", "Sensitivity"),
			Treatment: []string{"Daily sunscreen", "Vitamin C serums", "Chemical peels (doctor supervised)"},
		},
		{
			Name:      "Contact Dermatitis",
			Symptoms:  symptoms("Rash", "Itching", "Redness", "Swelling"),
			Treatment: []string{"Avoid allergens", "Soothe with creams", "Mild steroid creams if prescribed"},
		},
		{
			Name:      "Herpes Simplex",
			Symptoms:  symptoms("Blisters", "Pain", "Swelling"),
			Treatment: []string{"Antiviral creams", "Medical consultation", "Avoid skin contact during flare"},
		},
		{
			Name:      "Athlete's Foot",
			Symptoms:  symptoms("Itching", "Scaling", "Cracks", "Flaking"),
			Treatment: []string{"Use antifungal powder", "Keep feet dry", "Breathable footwear"},
		},
		{
			Name:      "Urticaria (Hives)",
			Symptoms:  symptoms("Rash", "Itching", "Swelling"),
			Treatment: []string{"Antihistamines", "Cool compresses", "Avoid known triggers"},
		},
	}
}

// Builtin returns the reference catalog shipped with the binary.
func Builtin() (*Catalog, error) {
	return New(BuiltinSymptoms(), BuiltinConditions())
}

func symptoms(names ...string) []Symptom {
	result := make([]Symptom, 0, len(names))
	for _, name := range names {
		result = append(result, Symptom{Name: name})
	}
	return result
}
