package models

import "time"

// Question is a single multiple-choice prompt: a flag image and the
// candidate country names, exactly one of which is correct.
type Question struct {
	PromptID     string   `json:"promptId"`
	ImageURL     string   `json:"imageUrl"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correctIndex"`
}

// QuestionSet is the response payload for one quiz run. Built fresh per
// request and never reused.
type QuestionSet struct {
	Mode           string     `json:"mode"`
	Category       string     `json:"category"`
	TotalPlanned   int        `json:"totalPlanned"`
	TotalAvailable int        `json:"totalAvailable"`
	TotalUsed      int        `json:"totalUsed"`
	GeneratedAt    time.Time  `json:"generatedAt"`
	Questions      []Question `json:"questions"`
}
