package socialscraper

import (
	"regexp"
	"strconv"
	"time"
)

const SourceName = "social"

// Post is one timeline entry as returned by a TimelineFetcher.
type Post struct {
	Text     string
	PostedAt time.Time
}

// TrainDelay is a delay statement parsed from a single post.
type TrainDelay struct {
	TrainNumber  string
	DelayMinutes int
	Direction    string
	PostedAt     time.Time
	Text         string
}

var (
	trainNumberPattern = regexp.MustCompile(`(?i)(?:Train\s+|NB\s+Train\s+|SB\s+Train\s+|NB\s+|SB\s+)?(\d{3})`)
	northboundPattern  = regexp.MustCompile(`(?i)northbound|NB\s+Train|NB\s+\d`)
	southboundPattern  = regexp.MustCompile(`(?i)southbound|SB\s+Train|SB\s+\d`)
	onTimePattern      = regexp.MustCompile(`(?i)on[ -]time`)

	// Checked in order; the first hit wins. Unlike the alerts-page parser
	// these carry no ranges.
	delayPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s+min(?:ute)?s?\s+late`),
		regexp.MustCompile(`(?i)delayed?\s+(?:by\s+)?(\d+)\s+min(?:ute)?s?`),
		regexp.MustCompile(`(?i)running\s+(?:about\s+|approximately\s+)?(\d+)\s+min(?:ute)?s?\s+late`),
		regexp.MustCompile(`(?i)approximately\s+(\d+)\s+min(?:ute)?s?\s+late`),
		regexp.MustCompile(`(?i)about\s+(\d+)\s+min(?:ute)?s?\s+late`),
	}
)

// ParsePost extracts a train delay from one post. Posts without a 3-digit
// train number are discarded, as are posts that name a train but carry
// neither an "on time" statement nor a delay phrase.
func ParsePost(post Post) *TrainDelay {
	trainMatch := trainNumberPattern.FindStringSubmatch(post.Text)
	if trainMatch == nil {
		return nil
	}

	delay := &TrainDelay{
		TrainNumber: trainMatch[1],
		PostedAt:    post.PostedAt,
		Text:        post.Text,
	}

	if northboundPattern.MatchString(post.Text) {
		delay.Direction = "northbound"
	} else if southboundPattern.MatchString(post.Text) {
		delay.Direction = "southbound"
	}

	if onTimePattern.MatchString(post.Text) {
		return delay
	}

	for _, pattern := range delayPatterns {
		if match := pattern.FindStringSubmatch(post.Text); match != nil {
			delay.DelayMinutes, _ = strconv.Atoi(match[1])
			return delay
		}
	}

	return nil
}

// ParseTimeline parses every post from the last 24 hours, newest first as
// provided by the fetcher.
func ParseTimeline(posts []Post, now time.Time) []TrainDelay {
	cutoff := now.Add(-24 * time.Hour)

	var delays []TrainDelay
	for _, post := range posts {
		if post.PostedAt.Before(cutoff) {
			continue
		}

		if delay := ParsePost(post); delay != nil {
			delays = append(delays, *delay)
		}
	}

	return delays
}

// DelayMap keeps the first (most recent) delay per train number.
func DelayMap(delays []TrainDelay) map[string]int {
	byTrain := map[string]int{}
	for _, delay := range delays {
		if _, exists := byTrain[delay.TrainNumber]; !exists {
			byTrain[delay.TrainNumber] = delay.DelayMinutes
		}
	}

	return byTrain
}
