package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	reObject = regexp.MustCompile(`\{[\s\S]*\}`)
	reNumber = regexp.MustCompile(`-?\d+(\.\d+)?`)
)

// parseImpact extracts the explanation and score from a model reply. It
// accepts bare JSON, fenced JSON, JSON embedded in prose, and as a last
// resort takes the whole text with its last number as the score.
func parseImpact(raw string) (string, float64) {
	text := stripFences(strings.TrimSpace(raw))

	var data map[string]any
	if err := json.Unmarshal([]byte(text), &data); err == nil {
		_, hasExp := data["priceImpactExplanation"]
		_, hasScore := data["priceImpactScore"]
		if hasExp || hasScore {
			return fromFields(data)
		}
	}

	if chunk := reObject.FindString(text); chunk != "" {
		data = nil
		if err := json.Unmarshal([]byte(chunk), &data); err == nil && data != nil {
			return fromFields(data)
		}
	}

	score := 0.0
	if nums := reNumber.FindAllString(text, -1); len(nums) > 0 {
		score, _ = strconv.ParseFloat(nums[len(nums)-1], 64)
	}
	return text, clampScore(score)
}

func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	lines = lines[1:]
	if n := len(lines); n > 0 && strings.HasPrefix(strings.TrimSpace(lines[n-1]), "```") {
		lines = lines[:n-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func fromFields(data map[string]any) (string, float64) {
	explanation := ""
	if v, ok := data["priceImpactExplanation"]; ok && v != nil {
		explanation = strings.TrimSpace(fmt.Sprint(v))
	}

	score := 0.0
	switch v := data["priceImpactScore"].(type) {
	case float64:
		score = v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			score = f
		}
	}
	return explanation, clampScore(score)
}

func clampScore(s float64) float64 {
	switch {
	case math.IsNaN(s):
		return 0
	case s < -MaxScore:
		return -MaxScore
	case s > MaxScore:
		return MaxScore
	}
	return s
}
