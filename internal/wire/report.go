package wire

import (
	"context"

	"google.golang.org/grpc"
)

// Full method names of the report service.
const (
	ReportGenerateMonthlyReportMethod = "/finledger.Report/GenerateMonthlyReport"
	ReportExportReportMethod          = "/finledger.Report/ExportReport"
	ReportPublishReportMethod         = "/finledger.Report/PublishReport"
)

// ReportServer is the server contract of the report service.
type ReportServer interface {
	GenerateMonthlyReport(ctx context.Context, req *MonthlyReportRequest) (*MonthlyReportResponse, error)
	ExportReport(ctx context.Context, req *ExportReportRequest) (*ExportReportResponse, error)
	PublishReport(ctx context.Context, req *PublishReportRequest) (*PublishReportResponse, error)
}

func reportGenerateMonthlyReportHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(MonthlyReportRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReportServer).GenerateMonthlyReport(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ReportGenerateMonthlyReportMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReportServer).GenerateMonthlyReport(ctx, req.(*MonthlyReportRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func reportExportReportHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ExportReportRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReportServer).ExportReport(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ReportExportReportMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReportServer).ExportReport(ctx, req.(*ExportReportRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func reportPublishReportHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PublishReportRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReportServer).PublishReport(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ReportPublishReportMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReportServer).PublishReport(ctx, req.(*PublishReportRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ReportServiceDesc describes the report service to gRPC.
var ReportServiceDesc = grpc.ServiceDesc{
	ServiceName: "finledger.Report",
	HandlerType: (*ReportServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GenerateMonthlyReport", Handler: reportGenerateMonthlyReportHandler},
		{MethodName: "ExportReport", Handler: reportExportReportHandler},
		{MethodName: "PublishReport", Handler: reportPublishReportHandler},
	},
}

// RegisterReportServer registers a ReportServer implementation.
func RegisterReportServer(s grpc.ServiceRegistrar, srv ReportServer) {
	s.RegisterService(&ReportServiceDesc, srv)
}

// ReportClient calls the report service over a client connection.
type ReportClient struct {
	cc grpc.ClientConnInterface
}

// NewReportClient wraps an established connection.
func NewReportClient(cc grpc.ClientConnInterface) *ReportClient {
	return &ReportClient{cc: cc}
}

func (c *ReportClient) GenerateMonthlyReport(ctx context.Context, req *MonthlyReportRequest) (*MonthlyReportResponse, error) {
	out := new(MonthlyReportResponse)
	if err := c.cc.Invoke(ctx, ReportGenerateMonthlyReportMethod, req, out, grpc.CallContentSubtype(CodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ReportClient) ExportReport(ctx context.Context, req *ExportReportRequest) (*ExportReportResponse, error) {
	out := new(ExportReportResponse)
	if err := c.cc.Invoke(ctx, ReportExportReportMethod, req, out, grpc.CallContentSubtype(CodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ReportClient) PublishReport(ctx context.Context, req *PublishReportRequest) (*PublishReportResponse, error) {
	out := new(PublishReportResponse)
	if err := c.cc.Invoke(ctx, ReportPublishReportMethod, req, out, grpc.CallContentSubtype(CodecName)); err != nil {
		return nil, err
	}
	return out, nil
}
