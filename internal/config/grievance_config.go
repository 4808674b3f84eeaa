package config

import (
	"grievanceportal/backend/internal/models"
	"time"
)

const (
	// Wizard
	DraftTTL     = 24 * time.Hour
	DraftLockTTL = 30 * time.Second

	// Accounts
	MinPasswordLength  = 6
	TelegramLinkTTL    = 15 * time.Minute
	TelegramLinkLength = 8

	// Analytics
	RecentActivityLimit = 10

	// Bot
	BotListLimit = 5

	// Events
	EventsChannel = "grievance:events"
)

// SubCategories maps every category to its ordered sub-categories.
var SubCategories = map[models.Category][]string{
	models.CategoryAcademic:    {"Teaching Quality", "Syllabus", "Time-Table Clash", "Lab/Equipment"},
	models.CategoryFacility:    {"Classroom Infrastructure", "WiFi", "Water Supply", "Restrooms", "Canteen", "Hostel", "Library", "Parking"},
	models.CategoryExamination: {"Marks Related", "Exam Scheduling", "Exam Not Given", "Results Delay", "Invigilation/Conduct"},
	models.CategoryPlacement:   {"Eligibility Issues", "Company Opportunity", "Documentation", "Placement Cell Support", "Interview Process"},
	models.CategoryOther:       {"General"},
}

// FieldSchemas holds the detail fields authored per (category, sub-category).
// Pairs missing here fall back to FallbackSchema.
var FieldSchemas = map[models.Category]map[string][]models.FieldDescriptor{
	models.CategoryAcademic: {
		"Teaching Quality": {
			text("subjectName", "Subject Name"),
			text("facultyName", "Faculty Name"),
			text("issueType", "Issue Type (e.g., Pace of teaching, Methodology)"),
		},
		"Syllabus": {
			text("subjectName", "Subject Name"),
			text("courseCode", "Course Code"),
			text("issueType", "Issue Type (e.g., Syllabus not completed)"),
		},
		"Time-Table Clash": {
			choice("clashType", "Clash Type", "Lecture", "Lab", "Internal Exam"),
			text("clashingSubjects", "Clashing Subjects (comma separated)"),
			date("dateOfClash", "Date of Clash"),
		},
		"Lab/Equipment": {
			text("labNameOrNumber", "Lab Name or Number"),
			text("equipmentOrSoftware", "Equipment or Software"),
			text("issueType", "Issue Type (e.g., Not working, Unavailable)"),
		},
	},
	models.CategoryFacility: {
		"Classroom Infrastructure": {
			text("building", "Building"),
			text("roomNo", "Room Number"),
			text("item", "Item (e.g., Projector, Fan, Light)"),
		},
		"WiFi": {
			text("building", "Building"),
			text("floor", "Floor"),
			text("location", "Location"),
		},
		"Water Supply": {
			text("building", "Building"),
			text("floor", "Floor"),
			text("location", "Location"),
			text("issueType", "Issue Type (e.g., No water, Unclean water)"),
		},
		"Hostel": {
			text("hostelName", "Hostel Name"),
			text("roomNo", "Room Number"),
			text("issueType", "Issue Type (e.g., Room Maintenance, Mess Food)"),
		},
	},
	models.CategoryExamination: {
		"Marks Related": {
			text("subject", "Subject"),
			text("courseCode", "Course Code"),
			text("examName", "Exam Name (e.g., Mid-Term 1)"),
			text("issueType", "Issue Type (e.g., Error in total)"),
		},
	},
	models.CategoryPlacement: {
		"Eligibility Issues": {
			text("companyName", "Company Name"),
			text("criteriaInDispute", "Criteria in Dispute (e.g., CGPA, Backlogs)"),
		},
	},
}

// FallbackSchema keeps every pair submittable when nothing was authored for it.
var FallbackSchema = []models.FieldDescriptor{
	{
		Key:   "additionalInfo",
		Label: "Please provide details in the description field above.",
		Kind:  models.InputText,
	},
}

func text(key, label string) models.FieldDescriptor {
	return models.FieldDescriptor{Key: key, Label: label, Kind: models.InputText, Required: true}
}

func date(key, label string) models.FieldDescriptor {
	return models.FieldDescriptor{Key: key, Label: label, Kind: models.InputDate, Required: true}
}

func choice(key, label string, options ...string) models.FieldDescriptor {
	return models.FieldDescriptor{Key: key, Label: label, Kind: models.InputSelect, Options: options, Required: true}
}
