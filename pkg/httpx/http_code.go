package httpx

var (
	Failed                        = failed(500, "Request failed")
	RequestParameterParsingFailed = failed(5001, "Request parameter parsing failed")
	ProjectIdIsEmpty              = failed(5002, "Project id is empty")
	ChannelIdIsEmpty              = failed(5003, "Channel id is empty")
	ModuleIdIsEmpty               = failed(5004, "Module id is empty")

	// Unauthorized 401
	Unauthorized         = failed(4401, "Unauthorized")
	AuthenticationFailed = failed(4402, "Authentication failed")
	InvalidToken         = failed(4405, "Invalid token")
	TokenBeEmpty         = failed(4406, "Token cannot be empty")
	TokenExpired         = failed(4407, "Token is expired")

	// BadRequest 400
	BadRequest = failed(4000, "Bad request")
	NotFound   = failed(4004, "Not found")

	// Forbidden 403
	Forbidden        = failed(4030, "Forbidden")
	PermissionDenied = failed(4031, "Permission denied")
	ModuleDisabled   = failed(4032, "Module is disabled for this role")

	InternalError = failed(5000, "Internal error, please contact the administrator")

	ConfigNotExist        = failed(4042, "Configuration does not exist")
	ConfigAlreadyExist    = failed(4043, "Configuration already exists")
	RuleAlreadyExist      = failed(4044, "A rule with the same resource, action and effect already exists")
	EmptyModuleConfigs    = failed(4045, "Access control document must contain at least one module config")
	DuplicateModuleConfig = failed(4046, "Duplicate module or role entry in access control document")
)

var (
	Success = success(200, "Request Success")
)

func failed(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}

func success(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}
