package debug

// Tselector names a debug label understood by COTASKDEBUG.
type Tselector string

const (
	ERR Tselector = "_ERR"
)

// Core condition-variable primitive.
const (
	CV           Tselector = "CV"
	CV_ERR                 = CV + ERR
	WAITLIST     Tselector = "WAITLIST"
	WAITSTRATEGY Tselector = "WAITSTRATEGY"
	TASKCTX      Tselector = "TASKCTX"
)

// Primitive consumers.
const (
	SEMCLNT   Tselector = "SEMCLNT"
	CONDTABLE Tselector = "CONDTABLE"
)

// Domain stack.
const (
	RPCMW         Tselector = "RPCMW"
	RPCMW_ERR               = RPCMW + ERR
	PGIO          Tselector = "PGIO"
	PGIO_ERR                = PGIO + ERR
	REDISCLUSTER  Tselector = "REDISCLUSTER"
)
