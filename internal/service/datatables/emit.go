// Package datatables file: internal/service/datatables/emit.go
package datatables

import (
	"GridAegis/internal/core/domain"
	"GridAegis/internal/core/port"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Emit 是唯一的响应出口：成功时写出响应信封；配置/请求错误写出 {"error": msg}，
// 两者都以 200 返回。其他错误不写任何内容，原样返回给调用方处理。
func Emit(sink port.ResponseSink, resp *domain.Response, err error) error {
	if err != nil {
		if msg, ok := port.UserMessage(err); ok {
			sink.JSON(http.StatusOK, gin.H{"error": msg})
			return nil
		}
		return err
	}
	sink.JSON(http.StatusOK, resp)
	return nil
}

// Serve 完成一次完整的表格请求：构造 Processor、执行查询并通过 sink 写出结果。
func Serve(ctx context.Context, sink port.ResponseSink, cfg domain.TableConfig, catalog port.SchemaCatalog, qb port.QueryBuilder, req domain.WireRequest, rowID string, rowClass any, opts ...Option) error {
	p, err := New(ctx, cfg, catalog, qb, req, opts...)
	if err != nil {
		return Emit(sink, nil, err)
	}
	resp, err := p.Process(ctx, rowID, rowClass)
	return Emit(sink, resp, err)
}
