package restyutil

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type InstrumentOutput interface {
	Write(id string, contents string)
}

type instrumentCtx struct {
	output    InstrumentOutput
	idcounter *uint64
}

// InstrumentClient writes a full dump of every request/response pair made by
// the client to output, one message per request.
// `output` can be nil, if it is, then the function is a no-op
func InstrumentClient(client *resty.Client, output InstrumentOutput) {
	if output == nil {
		return
	}

	var idcounter uint64
	i := instrumentCtx{output: output, idcounter: &idcounter}
	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

type messageIdKeyType int

var messageIdKey messageIdKeyType

func (i instrumentCtx) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	messageId := strconv.FormatUint(atomic.AddUint64(i.idcounter, 1), 10)
	req.SetContext(context.WithValue(req.Context(), messageIdKey, messageId))
	return nil
}

func (i instrumentCtx) messageId(ctx context.Context) string {
	messageId, ok := ctx.Value(messageIdKey).(string)
	if !ok {
		return "unknown"
	}
	return messageId
}

func (i instrumentCtx) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	i.output.Write(i.messageId(res.Request.Context()), formatHttpMessage(res))
	return nil
}

func (i instrumentCtx) onError(req *resty.Request, err error) {
	i.output.Write(
		i.messageId(req.Context()),
		fmt.Sprintf("---- REQUEST ----\n\n%s %s\n\n---- ERROR ----\n\n%s", req.Method, req.URL, err.Error()),
	)
}
