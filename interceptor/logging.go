package interceptor

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/panagiotisptr/shimstack/future"
)

// Logging returns an interceptor that logs each call passing through it.
// Asynchronous results are logged when their future settles. Errors are
// logged and returned unchanged.
func Logging(logger *slog.Logger) Interceptor {
	return func(method string, next Handler) Handler {
		return func(this interface{}, args []interface{}) (interface{}, error) {
			log := logger.With(
				"method", method,
				"call_id", uuid.NewString(),
			)
			log.Debug("call start", "args", len(args))
			start := time.Now()

			out, err := next(this, args)
			if err != nil {
				log.Error("call failed", "error", err, "elapsed", time.Since(start))
				return out, err
			}

			f, ok := out.(*future.Future)
			if !ok {
				log.Debug("call done", "elapsed", time.Since(start))
				return out, nil
			}

			f.OnSettle(func(_ interface{}, err error) {
				if err != nil {
					log.Error("call failed", "error", err, "elapsed", time.Since(start), "async", true)
					return
				}
				log.Debug("call done", "elapsed", time.Since(start), "async", true)
			})
			return f, nil
		}
	}
}
