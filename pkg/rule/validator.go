// Package rule 封装 go-playground/validator，供服务层与绑定层共用同一套校验规则.
package rule

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// 结构体字段上使用的校验 tag 名.
const tagName = "rule"

var (
	inst *validator.Validate
	once sync.Once
)

// engine 返回全局校验器，首次调用时初始化.
// 优先复用 gin binding 的 validator 实例，这样表单绑定与服务层校验共享已注册的规则.
func engine() *validator.Validate {
	once.Do(func() {
		if e, ok := binding.Validator.Engine().(*validator.Validate); ok {
			inst = e
		} else {
			inst = validator.New()
		}
		inst.SetTagName(tagName)
	})

	return inst
}

// Engine 暴露底层 *validator.Validate，用于注册 tag name 函数等高级用法.
func Engine() *validator.Validate {
	return engine()
}

// RegisterValidation 注册一个自定义校验函数.
func RegisterValidation(tag string, fn validator.Func, opts ...bool) error {
	return engine().RegisterValidation(tag, fn, opts...)
}

// RegisterAlias 把一个别名映射到一串既有规则.
func RegisterAlias(alias, rules string) {
	engine().RegisterAlias(alias, rules)
}

// ValidateStruct 按字段 tag 对结构体做完整校验.
func ValidateStruct(s any) error {
	return engine().Struct(s)
}

// ValidateVar 对单个值执行一条规则，如 ValidateVar(sem, "semester").
func ValidateVar(field any, tag string) error {
	return engine().Var(field, tag)
}
