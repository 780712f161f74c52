package types

// Error
type errString string

func (e errString) Error() string {
	return string(e)
}

const ErrInvalidConfiguration = errString("invalid combination configuration")
const ErrGenerationFailure = errString("combination generation failed")
const ErrUnknownCategory = errString("unknown garment category")
const ErrGarmentNotFound = errString("garment not found")
const ErrSessionStopped = errString("request cancelled: session stopped")
const ErrJournalFull = errString("journal segment is full")
const ErrJournalBufferNotEmpty = errString("journal buffer is not empty. Should Flush before rotate")
