package models

import "time"

// WordStats holds recall statistics for a single practiced word
type WordStats struct {
	WordID      string    `json:"wordId"`
	TopicID     string    `json:"topicId"`
	TopicName   string    `json:"topicName"`
	Word        string    `json:"word"`
	Meaning     string    `json:"meaning"`
	Frequency   int       `json:"frequency"`
	Correct     int       `json:"correct"`
	RecallRate  float64   `json:"recallRate"`
	Mastery     float64   `json:"mastery"`
	LastAttempt time.Time `json:"lastAttempt"`
	ReviewDate  time.Time `json:"reviewDate"`
}

// TopicStats aggregates word statistics for one topic
type TopicStats struct {
	TopicID        string  `json:"topicId"`
	Name           string  `json:"name"`
	AverageMastery float64 `json:"averageMastery"`
	WordsStudied   int     `json:"wordsStudied"`
	TotalAttempts  int     `json:"totalAttempts"`
}

// OverallStats summarizes all practice across topics
type OverallStats struct {
	TotalAttempts   int     `json:"totalAttempts"`
	TotalCorrect    int     `json:"totalCorrect"`
	OverallAccuracy float64 `json:"overallAccuracy"` // percent
	WordsStudied    int     `json:"wordsStudied"`
}

// TopicAccuracy is a row of the simple accuracy-by-topic report
type TopicAccuracy struct {
	TopicID  string  `json:"topicId"`
	Name     string  `json:"name"`
	Accuracy float64 `json:"accuracy"` // 0..1
	Attempts int     `json:"attempts"`
	HasData  bool    `json:"hasData"`
}

// DifficultWord is a row of the simple report's words-to-review list
type DifficultWord struct {
	WordID    string  `json:"wordId"`
	Word      string  `json:"word"`
	TopicName string  `json:"topicName"`
	Correct   int     `json:"correct"`
	Total     int     `json:"total"`
	Accuracy  float64 `json:"accuracy"` // 0..1
}
