package model

import (
	"fmt"
	"strconv"
	"time"
)

// Address is a wallet identity. The zero value means no authenticated user.
type Address string

type QuestID string

type QuestType int

const (
	JobApplications QuestType = iota
	InterviewPrep
	Networking
	SkillBuilding
)

var questTypeTags = [...]string{
	JobApplications: "JobApplications",
	InterviewPrep:   "InterviewPrep",
	Networking:      "Networking",
	SkillBuilding:   "SkillBuilding",
}

func (t QuestType) String() string {
	if t < 0 || int(t) >= len(questTypeTags) {
		return "QuestType(" + strconv.Itoa(int(t)) + ")"
	}
	return questTypeTags[t]
}

func (t QuestType) Valid() bool {
	return t >= JobApplications && t <= SkillBuilding
}

// ParseQuestType accepts either the tag name or its numeric code.
func ParseQuestType(s string) (QuestType, error) {
	for i, tag := range questTypeTags {
		if tag == s {
			return QuestType(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && QuestType(n).Valid() {
		return QuestType(n), nil
	}
	return 0, fmt.Errorf("unknown quest type %q", s)
}

type QuestStatus int

const (
	StatusActive QuestStatus = iota
	StatusCompleted
	StatusFailed
	StatusCancelled
)

var questStatusTags = [...]string{
	StatusActive:    "Active",
	StatusCompleted: "Completed",
	StatusFailed:    "Failed",
	StatusCancelled: "Cancelled",
}

func (s QuestStatus) String() string {
	if s < 0 || int(s) >= len(questStatusTags) {
		return "QuestStatus(" + strconv.Itoa(int(s)) + ")"
	}
	return questStatusTags[s]
}

func (s QuestStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// ParseQuestStatus normalizes the two representations a ledger may hand back,
// the tag name ("Active") and the numeric code ("0").
func ParseQuestStatus(s string) (QuestStatus, error) {
	for i, tag := range questStatusTags {
		if tag == s {
			return QuestStatus(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < len(questStatusTags) {
		return QuestStatus(n), nil
	}
	return 0, fmt.Errorf("unknown quest status %q", s)
}

type DurationTier struct {
	DurationDays int
	StakeAmount  int64
	Label        string
	Badge        string
}

type Quest struct {
	ID            QuestID
	Owner         Address
	Type          QuestType
	DailyTarget   int
	DurationDays  int
	GraceDays     int
	StakeAmount   int64
	Status        QuestStatus
	DaysCompleted int
	YieldAccrued  int64
	Reward        int64
	StartTime     time.Time
	EndTime       time.Time
}

// RemainingDays is the number of day credits the quest can still accept.
func (q *Quest) RemainingDays() int {
	if q.DaysCompleted >= q.DurationDays {
		return 0
	}
	return q.DurationDays - q.DaysCompleted
}

type QuestParams struct {
	Type         QuestType
	DailyTarget  int
	DurationDays int
	GraceDays    int
	StakeAmount  int64
}

type ActivityLogEntry struct {
	QuestID           QuestID
	ActivitiesCount   int
	VerificationToken string
	Timestamp         time.Time
}

type PoolStats struct {
	CommunityPool int64
	YieldPool     int64
}
