package directory

import "errors"

var (
	// ErrDuplicateUsername indicates the username is already registered.
	ErrDuplicateUsername = errors.New("directory: username already taken")

	// ErrInvalidCredentials indicates a username/password pair did not match.
	// It never says which of the two was wrong.
	ErrInvalidCredentials = errors.New("directory: invalid username or password")

	// ErrUnknownUser indicates the user ID does not exist.
	ErrUnknownUser = errors.New("directory: unknown user")

	// ErrUnresolvedSponsor indicates the sponsor ID does not exist (strict mode).
	ErrUnresolvedSponsor = errors.New("directory: sponsor not found")

	// ErrInvalidInput indicates a required registration field is empty.
	ErrInvalidInput = errors.New("directory: invalid input")

	// ErrNegativeCredit indicates an attempt to credit a negative amount.
	ErrNegativeCredit = errors.New("directory: negative credit")

	// ErrDuplicateUser indicates two records share an ID or username.
	ErrDuplicateUser = errors.New("directory: duplicate user record")

	// ErrBrokenForest indicates the sponsor relation is not a single-rooted forest.
	ErrBrokenForest = errors.New("directory: sponsor relation is not a single-rooted forest")

	// ErrInvalidSponsorMode indicates an unrecognized sponsor mode string.
	ErrInvalidSponsorMode = errors.New("directory: invalid sponsor mode (must be \"strict\" or \"lenient\")")
)
