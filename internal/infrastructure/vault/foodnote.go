package vault

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

// IngredientFileClass tags notes that can be used as recipe ingredients
const IngredientFileClass = "Ingredient"

// foodFrontmatter fixes the key order of a food note's frontmatter
type foodFrontmatter struct {
	FileClass     string   `yaml:"fileClass"`
	Name          string   `yaml:"name"`
	FoodGroup     string   `yaml:"foodgroup,omitempty"`
	Source        string   `yaml:"source,omitempty"`
	Calories      float64  `yaml:"calories"`
	Fat           float64  `yaml:"fat"`
	SaturatedFat  float64  `yaml:"saturatedfat"`
	TransFat      float64  `yaml:"transfat"`
	Cholesterol   float64  `yaml:"cholesterol"`
	Sodium        float64  `yaml:"sodium"`
	Carbohydrates float64  `yaml:"carbohydrates"`
	Fiber         float64  `yaml:"fiber"`
	Sugars        float64  `yaml:"sugars"`
	Protein       float64  `yaml:"protein"`
	VitaminD      float64  `yaml:"vitamind"`
	Calcium       float64  `yaml:"calcium"`
	Iron          float64  `yaml:"iron"`
	Potassium     float64  `yaml:"potassium"`
	Servings      []string `yaml:"servings"`
	ServingGrams  int      `yaml:"serv_g"`
}

// RenderFoodNote serializes a food note as YAML frontmatter followed by a title
func RenderFoodNote(note domain.FoodNote) ([]byte, error) {
	n := note.Nutrients
	fm := foodFrontmatter{
		FileClass:     IngredientFileClass,
		Name:          note.Name,
		FoodGroup:     note.Group,
		Source:        note.Source,
		Calories:      n.Calories,
		Fat:           n.Fat,
		SaturatedFat:  n.SaturatedFat,
		TransFat:      n.TransFat,
		Cholesterol:   n.Cholesterol,
		Sodium:        n.Sodium,
		Carbohydrates: n.Carbohydrates,
		Fiber:         n.Fiber,
		Sugars:        n.Sugars,
		Protein:       n.Protein,
		VitaminD:      n.VitaminD,
		Calcium:       n.Calcium,
		Iron:          n.Iron,
		Potassium:     n.Potassium,
		ServingGrams:  100,
	}
	for _, s := range note.Servings {
		fm.Servings = append(fm.Servings, formatServing(s))
	}
	if len(fm.Servings) == 0 {
		fm.Servings = []string{"Default | 100g"}
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(fm); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	buf.WriteString("---\n")
	fmt.Fprintf(&buf, "# %s\n", note.Name)
	return buf.Bytes(), nil
}

func formatServing(s domain.ServingOption) string {
	return s.Label + " | " + strconv.FormatFloat(s.Grams, 'f', -1, 64) + "g"
}

// WriteFoodNote creates "<folder>/<name>.md" and returns its note ID
func (v *FSVault) WriteFoodNote(ctx context.Context, folder string, note domain.FoodNote) (string, error) {
	name := strings.TrimSpace(note.Name)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: invalid food name %q", domain.ErrInvalidRequest, note.Name)
	}

	content, err := RenderFoodNote(note)
	if err != nil {
		return "", err
	}

	noteID := name + ".md"
	if folder = strings.Trim(folder, "/"); folder != "" {
		noteID = path.Join(folder, noteID)
	}
	if err := v.CreateNote(ctx, noteID, content); err != nil {
		return "", err
	}
	return noteID, nil
}
