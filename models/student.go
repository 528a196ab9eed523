package models

import "time"

// Student is the personal record for a registered student.
type Student struct {
	ID                     uint   `gorm:"primarykey;column:student_id"`
	Name                   string `gorm:"size:100;not null;column:student_name"`
	CNIC                   string `gorm:"size:15;not null"`
	Gender                 string `gorm:"size:1;not null"`
	Age                    *int
	DateOfBirth            *time.Time `gorm:"type:date"`
	Phone                  string     `gorm:"size:15;not null"`
	Address                string     `gorm:"type:text"`
	ContactNo              string     `gorm:"size:15;column:student_contact_no"`
	Occupation             string     `gorm:"size:100;column:student_occupation"`
	AdmissionType          string     `gorm:"size:20"`
	AdmissionDate          *time.Time `gorm:"type:date"`
	AccompaniedByAssistant bool       `gorm:"default:false"`
	AffidavitAttached      bool       `gorm:"default:false"`

	EducationHistory []EducationHistory `gorm:"foreignkey:StudentID"`
	Enrollments      []Enrollment       `gorm:"foreignkey:StudentID"`
	MedicalHistory   []MedicalHistory   `gorm:"foreignkey:StudentID"`
	Guardians        []StudentGuardian  `gorm:"foreignkey:StudentID"`
	HostelInfo       []HostelInfo       `gorm:"foreignkey:StudentID"`
	Transportation   []Transportation   `gorm:"foreignkey:StudentID"`
}

func (Student) TableName() string { return "students_personal" }

type EducationHistory struct {
	ID                  uint `gorm:"primarykey;column:education_id"`
	StudentID           uint
	EducationLevel      string `gorm:"size:50"`
	CertificateAttached bool
}

func (EducationHistory) TableName() string { return "education_history" }

type Course struct {
	ID   uint   `gorm:"primarykey;column:course_id"`
	Name string `gorm:"size:100;not null;column:course_name"`

	Enrollments []Enrollment `gorm:"foreignkey:CourseID"`
}

type Enrollment struct {
	ID               uint `gorm:"primarykey;column:enrollment_id"`
	StudentID        uint
	CourseID         uint
	DateOfEnrollment *time.Time `gorm:"type:date"`
	CompletionStatus bool

	Course Course `gorm:"foreignkey:CourseID"`
}

type MedicalHistory struct {
	ID                   uint `gorm:"primarykey;column:medical_id"`
	StudentID            uint
	NameOfDisability     string `gorm:"size:100;not null"`
	BriefMedicalHistory  string `gorm:"type:text"`
	RegularMedication    string `gorm:"type:text"`
	Epilepsy             bool
	CommunicableDisease  string `gorm:"type:text"`
	DrugAddictionSmoking bool
	AssistiveDeviceUsed  string `gorm:"size:100"`
}

func (MedicalHistory) TableName() string { return "medical_history" }

type StudentGuardian struct {
	ID            uint `gorm:"primarykey;column:student_guardian_id"`
	StudentID     uint
	Name          string `gorm:"size:100;not null;column:guardian_name"`
	Relationship  string `gorm:"size:50;column:guardian_relationship"`
	ContactNumber string `gorm:"size:15;not null;column:guardian_contact_number"`
}

type HostelInfo struct {
	ID                  uint `gorm:"primarykey;column:hostel_id"`
	StudentID           uint
	DurationOfStay      string `gorm:"size:50"`
	SpecialRequirements string `gorm:"type:text"`
}

func (HostelInfo) TableName() string { return "hostel_management" }

type Transportation struct {
	ID                        uint `gorm:"primarykey;column:transport_id"`
	StudentID                 uint
	PickupDropResponsibleName string `gorm:"size:100;column:pickup_drop_responsible_name"`
	PickupDropContactNumber   string `gorm:"size:15;not null;column:pickup_drop_contact_number"`
}
