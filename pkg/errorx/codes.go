package errorx

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Internal         Code = 100007
	Unavailable      Code = 100008

	// Reward and claim codes
	RewardExhausted  Code = 200001
	ClaimNotPending  Code = 200002
	ClaimNotApproved Code = 200003

	// Points codes
	PointsConfigMissing Code = 300001
	NoTokenForIssuer    Code = 300002

	// Ledger codes
	LedgerRejected      Code = 400001
	InsufficientBalance Code = 400002
	ConfirmationTimeout Code = 400003
	InvalidDestination  Code = 400004

	// Keystore codes
	KeyNotFound      Code = 500001
	DecryptionFailed Code = 500002

	// Storage codes
	UploadFailed Code = 600001
)
