package constants

const (
	MsgDataUpdated      = "Data updated successfully!"
	MsgNoFilePart       = "No file part"
	MsgNoSelectedFile   = "No selected file"
	MsgCommentAdded     = "Comment added successfully!"
	MsgCommentEmpty     = "Comment cannot be empty"
	MsgCommentTooLong   = "Comment is too long"
	MsgMissingParams    = "Missing parameters"
	MsgAdminRequired    = "Admin access required"
	MsgUnauthenticated  = "Unauthorized. Missing gateway identity"
	MsgTooManyRequests  = "Too many requests"
	MsgSyncFailedPrefix = "Error: "
)
