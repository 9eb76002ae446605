package api

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindJSON 绑定并校验请求体，失败时写入 400 并返回 false
// messages 的键为 "字段名.规则"（如 Amount.gte），JSON 类型错误的键为 "json字段名.type"
// 未命中的校验错误使用 fallback，其余解析错误返回 Invalid request body
func bindJSON(c *gin.Context, req interface{}, messages map[string]string, fallback string) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := messages[verrs[0].Field()+"."+verrs[0].Tag()]; ok {
			BadRequest(c, msg)
			return false
		}
		BadRequest(c, fallback)
		return false
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if msg, ok := messages[typeErr.Field+".type"]; ok {
			BadRequest(c, msg)
			return false
		}
	}

	BadRequest(c, "Invalid request body")
	return false
}
