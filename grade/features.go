package grade

// NumFeatures is the length of a feature vector.
const NumFeatures = 5

const (
	Assignment = iota
	Exam
	Attendance
	Project
	StudyHours
)

// FeatureNames are the dataset column headers, in feature order.
var FeatureNames = [NumFeatures]string{
	"Assignment",
	"Exam",
	"Attendance",
	"Project",
	"Study Hours/Day",
}

// GradeColumn is the header of the label column.
const GradeColumn = "Grade"

// Input bounds applied when collecting values from a user.
const (
	MaxScore      = 100
	MaxStudyHours = 5
)

// Features is the ordered vector (assignment, exam, attendance, project,
// study hours per day).
type Features [NumFeatures]float64

// Bounded clamps the score-like features into [0, MaxScore] and study hours
// into [0, MaxStudyHours]. NaN values are left untouched.
func (f Features) Bounded() Features {
	for i := range f {
		hi := float64(MaxScore)
		if i == StudyHours {
			hi = MaxStudyHours
		}
		switch {
		case f[i] < 0:
			f[i] = 0
		case f[i] > hi:
			f[i] = hi
		}
	}
	return f
}
