package response

// Fixed messages shared by every resource.
const (
	MsgDocumentNotFound  = "Document not found."
	MsgParameterNotFound = "Parameter not found."
	MsgDeleted           = "Success."
	MsgMissingToken      = "Missing authentication."
	MsgInvalidToken      = "Invalid token."
)
