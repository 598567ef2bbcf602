package errs

// Messages surfaced to API clients.
const (
	MsgSomethingWrong   = "Something went wrong"
	MsgWrongCreds       = "Wrong credentials provided"
	MsgInvalidToken     = "Invalid token"
	MsgCantDelete       = "You are not authorized to delete this record"
	MsgCantEdit         = "You are not authorized to edit this record"
	MsgEmailTaken       = "User with this email already exists"
	MsgUserNotFound     = "User not found"
	MsgEntityNotFound   = "Entity not found"
	MsgActivityNotFound = "Activity not found"
	MsgWrongEntity      = "Wrong entity"
	MsgWrongParam       = "Wrong parameter"
	MsgWrongOrder       = "Wrong sorting order"
	MsgForbidden        = "Access forbidden"
	MsgBadReference     = "Referenced record does not exist"
)
