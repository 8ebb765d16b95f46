package classroom

type Classroom struct {
	ID            int64  `json:"id" db:"id"`
	ClassroomName string `json:"classroomName" db:"classroom_name" validate:"required,max=50"`
	Capacity      int    `json:"capacity" db:"capacity" validate:"required,gt=0"`
	Location      string `json:"location" db:"location" validate:"max=255"`
	Info          string `json:"info" db:"info"`
}
