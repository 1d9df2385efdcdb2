// Package hook provides named extension points for addons.
//
// Callbacks are registered per event name and invoked in registration order.
// Each callback receives a Payload value and returns the payload the next
// callback sees, so the result of Call is a left fold over the chain:
//
//	reg := hook.NewRegistry()
//	reg.Register("page_end", func(ctx context.Context, p hook.Payload) (hook.Payload, error) {
//		p.Content += "<!-- rendered -->"
//		return p, nil
//	})
//
//	out, err := reg.Call(ctx, "page_end", hook.Payload{Content: body})
//
// Payloads are plain values. Form values are cloned before every callback, so
// a callback cannot mutate the data the caller or a previous callback holds.
package hook
