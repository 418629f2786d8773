package splitapi

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	// SplitServiceName is the fully-qualified name of the SplitService service.
	SplitServiceName = "splitorder.v1.SplitService"

	// SplitServicePreviewSplitProcedure is the path of the PreviewSplit RPC.
	SplitServicePreviewSplitProcedure = "/splitorder.v1.SplitService/PreviewSplit"
	// SplitServicePlaceSplitOrdersProcedure is the path of the PlaceSplitOrders RPC.
	SplitServicePlaceSplitOrdersProcedure = "/splitorder.v1.SplitService/PlaceSplitOrders"
)

// SplitServiceHandler is implemented by the server side of SplitService.
type SplitServiceHandler interface {
	PreviewSplit(context.Context, *connect.Request[PreviewSplitRequest]) (*connect.Response[PreviewSplitResponse], error)
	PlaceSplitOrders(context.Context, *connect.Request[PlaceSplitOrdersRequest]) (*connect.Response[PlaceSplitOrdersResponse], error)
}

// SplitServiceClient is a client for SplitService.
type SplitServiceClient interface {
	PreviewSplit(context.Context, *connect.Request[PreviewSplitRequest]) (*connect.Response[PreviewSplitResponse], error)
	PlaceSplitOrders(context.Context, *connect.Request[PlaceSplitOrdersRequest]) (*connect.Response[PlaceSplitOrdersResponse], error)
}

// NewSplitServiceHandler builds an HTTP handler from svc. It returns the path on
// which to mount the handler and the handler itself.
func NewSplitServiceHandler(svc SplitServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	previewSplit := connect.NewUnaryHandler(SplitServicePreviewSplitProcedure, svc.PreviewSplit, opts...)
	placeSplitOrders := connect.NewUnaryHandler(SplitServicePlaceSplitOrdersProcedure, svc.PlaceSplitOrders, opts...)

	return "/" + SplitServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SplitServicePreviewSplitProcedure:
			previewSplit.ServeHTTP(w, r)
		case SplitServicePlaceSplitOrdersProcedure:
			placeSplitOrders.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// NewSplitServiceClient constructs a client for SplitService at baseURL.
func NewSplitServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SplitServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)

	return &splitServiceClient{
		previewSplit: connect.NewClient[PreviewSplitRequest, PreviewSplitResponse](
			httpClient, baseURL+SplitServicePreviewSplitProcedure, opts...),
		placeSplitOrders: connect.NewClient[PlaceSplitOrdersRequest, PlaceSplitOrdersResponse](
			httpClient, baseURL+SplitServicePlaceSplitOrdersProcedure, opts...),
	}
}

type splitServiceClient struct {
	previewSplit     *connect.Client[PreviewSplitRequest, PreviewSplitResponse]
	placeSplitOrders *connect.Client[PlaceSplitOrdersRequest, PlaceSplitOrdersResponse]
}

func (c *splitServiceClient) PreviewSplit(ctx context.Context, req *connect.Request[PreviewSplitRequest]) (*connect.Response[PreviewSplitResponse], error) {
	return c.previewSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) PlaceSplitOrders(ctx context.Context, req *connect.Request[PlaceSplitOrdersRequest]) (*connect.Response[PlaceSplitOrdersResponse], error) {
	return c.placeSplitOrders.CallUnary(ctx, req)
}
