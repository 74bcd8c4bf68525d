package cli

import "context"

type sdkKey struct{}

func withSDK(ctx context.Context, s *sdk) context.Context {
	return context.WithValue(ctx, sdkKey{}, s)
}

func sdkFrom(ctx context.Context) *sdk {
	s, _ := ctx.Value(sdkKey{}).(*sdk)
	return s
}
