package rule

import (
	"strconv"

	"github.com/go-playground/validator/v10"
)

// RegisterCatalogRules 注册目录领域的自定义校验规则.
//   - content_type: 合法的内容类型（notes/module/question-bank/model-paper）
//   - semester: 学期编号，1-8 的整数文本
func RegisterCatalogRules() error {
	if err := RegisterValidation("semester", func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}

		n, err := strconv.Atoi(s)

		return err == nil && n >= 1 && n <= 8
	}); err != nil {
		return err
	}

	RegisterAlias("content_type", "oneof=notes module question-bank model-paper")

	return nil
}
