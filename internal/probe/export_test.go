package probe

var (
	ClassifySendError = classifySendError
	ReplyFromStats    = replyFromStats
)
