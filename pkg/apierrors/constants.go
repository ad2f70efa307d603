package apierrors

const (
	MsgInvalidTaskPayload = "invalidTaskPayload"
	MsgInvalidTaskFilter  = "invalidTaskFilter"
	MsgTaskNotFound       = "taskNotFound"
	MsgTaskDeleted        = "taskDeleted"
	MsgFailListTasks      = "failListTasks"
	MsgFailCreateTask     = "failCreateTask"
	MsgFailUpdateTask     = "failUpdateTask"
	MsgFailDeleteTask     = "failDeleteTask"
	MsgFailTaskStats      = "failTaskStats"
	MsgUnauthorized       = "unauthorized"
	MsgInvalidToken       = "invalidToken"
	MsgTitleRequired      = "titleRequired"
	MsgTitleEmpty         = "titleEmpty"
	MsgFieldRequired      = "fieldRequired"
	MsgFieldTooLong       = "fieldTooLong"
	MsgFieldInvalidType   = "fieldInvalidType"
	MsgFieldInvalid       = "fieldInvalid"
)
