package book

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
)

// Command 图书字段更新命令
// 设计说明:
// 1. 部分更新不再按字段名反射赋值,而是解析成一组封闭的命令
// 2. 每个命令自带校验规则,校验全部通过后才会apply
// 3. validate/apply不导出,包外无法扩展新的命令类型
type Command interface {
	// Field 命令对应的JSON字段名
	Field() string

	validate(ctx context.Context, authors AuthorRepository) error
	apply(b *Book)
}

// SetTitle 修改书名
type SetTitle struct{ Title string }

// SetYear 修改出版年份
type SetYear struct{ Year int }

// SetPrice 修改单价
type SetPrice struct{ Price decimal.Decimal }

// SetAvailable 修改可售库存
type SetAvailable struct{ Available int }

// SetAuthors 整体替换作者
type SetAuthors struct {
	AuthorIDs []uint

	resolved []Author
}

// SetCoverURL 修改封面地址,空字符串表示清除
type SetCoverURL struct{ URL string }

func (c *SetTitle) Field() string     { return "title" }
func (c *SetYear) Field() string      { return "year" }
func (c *SetPrice) Field() string     { return "price" }
func (c *SetAvailable) Field() string { return "available" }
func (c *SetAuthors) Field() string   { return "authors" }
func (c *SetCoverURL) Field() string  { return "cover_url" }

func (c *SetTitle) validate(context.Context, AuthorRepository) error {
	return ValidateTitle(c.Title)
}

func (c *SetYear) validate(context.Context, AuthorRepository) error {
	return ValidateYear(c.Year)
}

func (c *SetPrice) validate(context.Context, AuthorRepository) error {
	return ValidatePrice(c.Price)
}

func (c *SetAvailable) validate(context.Context, AuthorRepository) error {
	return ValidateAvailable(c.Available)
}

func (c *SetCoverURL) validate(context.Context, AuthorRepository) error {
	return ValidateCoverURL(c.URL)
}

// validate 作者列表非空,且每个ID都必须存在
func (c *SetAuthors) validate(ctx context.Context, repo AuthorRepository) error {
	if len(c.AuthorIDs) == 0 {
		return ErrInvalidAuthors
	}

	found, err := repo.FindByIDs(ctx, c.AuthorIDs)
	if err != nil {
		return err
	}

	byID := make(map[uint]Author, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}

	resolved := make([]Author, 0, len(c.AuthorIDs))
	var missing []string
	seen := make(map[uint]bool, len(c.AuthorIDs))
	for _, id := range c.AuthorIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		a, ok := byID[id]
		if !ok {
			missing = append(missing, fmt.Sprint(id))
			continue
		}
		resolved = append(resolved, a)
	}
	if len(missing) > 0 {
		return ErrAuthorNotFound.WithMessage("作者不存在: " + strings.Join(missing, ", "))
	}

	c.resolved = resolved
	return nil
}

func (c *SetTitle) apply(b *Book)     { b.Title = c.Title }
func (c *SetYear) apply(b *Book)      { b.Year = c.Year }
func (c *SetPrice) apply(b *Book)     { b.Price = c.Price }
func (c *SetAvailable) apply(b *Book) { b.Available = c.Available }
func (c *SetAuthors) apply(b *Book)   { b.Authors = c.resolved }
func (c *SetCoverURL) apply(b *Book)  { b.CoverURL = c.URL }

// =========================================
// 字段校验规则
// =========================================

var (
	minPrice = decimal.NewFromInt(1)
	maxPrice = decimal.NewFromInt(1000)
)

const (
	minYear      = 1900
	minAvailable = 1
	maxAvailable = 10000
)

// ValidateTitle 书名非空,且首尾不能有空白
func ValidateTitle(title string) error {
	if title == "" || strings.TrimSpace(title) != title {
		return ErrInvalidTitle
	}
	return nil
}

// ValidateYear 出版年份不早于1900
func ValidateYear(year int) error {
	if year < minYear {
		return ErrInvalidYear
	}
	return nil
}

// ValidatePrice 价格在[1, 1000]之间,最多两位小数
func ValidatePrice(price decimal.Decimal) error {
	if price.LessThan(minPrice) || price.GreaterThan(maxPrice) {
		return ErrInvalidPrice
	}
	if !price.Equal(price.Round(2)) {
		return ErrInvalidPrice
	}
	return nil
}

// ValidateAvailable 库存在[1, 10000]之间
func ValidateAvailable(available int) error {
	if available < minAvailable || available > maxAvailable {
		return ErrInvalidAvailable
	}
	return nil
}

// ValidateCoverURL 空字符串或http(s)绝对地址
func ValidateCoverURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidCoverURL
	}
	return nil
}

// =========================================
// 命令解析与批量校验
// =========================================

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors 一次请求中收集到的全部字段错误
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

// AppError 转换为参数错误,错误信息包含所有字段
func (v ValidationErrors) AppError() *apperrors.AppError {
	return apperrors.ErrInvalidParams.WithMessage(v.Error())
}

// As 让errors.As(err, &appErr)把字段错误当作参数错误处理
func (v ValidationErrors) As(target interface{}) bool {
	if t, ok := target.(**apperrors.AppError); ok {
		*t = v.AppError()
		return true
	}
	return false
}

type decoder func(raw json.RawMessage) (Command, error)

func decodeInto[T any](build func(T) Command) decoder {
	return func(raw json.RawMessage) (Command, error) {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return build(v), nil
	}
}

// decoders 字段名 → 命令,不在表中的字段一律拒绝
var decoders = map[string]decoder{
	"title":     decodeInto(func(v string) Command { return &SetTitle{Title: v} }),
	"year":      decodeInto(func(v int) Command { return &SetYear{Year: v} }),
	"price":     decodeInto(func(v decimal.Decimal) Command { return &SetPrice{Price: v} }),
	"available": decodeInto(func(v int) Command { return &SetAvailable{Available: v} }),
	"authors":   decodeInto(func(v []uint) Command { return &SetAuthors{AuthorIDs: v} }),
	"cover_url": decodeInto(func(v string) Command { return &SetCoverURL{URL: v} }),
}

// ParseCommands 把PATCH请求体解析为命令列表
// 按字段名排序,错误信息的顺序稳定;类型不匹配和未知字段都会收集后一起返回
func ParseCommands(fields map[string]json.RawMessage) ([]Command, error) {
	if len(fields) == 0 {
		return nil, ValidationErrors{{Field: "body", Message: "至少需要一个字段"}}
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		cmds []Command
		errs ValidationErrors
	)
	for _, name := range names {
		decode, ok := decoders[name]
		if !ok {
			errs = append(errs, FieldError{Field: name, Message: "不支持修改该字段"})
			continue
		}
		cmd, err := decode(fields[name])
		if err != nil {
			errs = append(errs, FieldError{Field: name, Message: "类型不正确"})
			continue
		}
		cmds = append(cmds, cmd)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return cmds, nil
}

// validateAll 执行全部命令的校验并收集错误
// 基础设施错误直接返回,不计入ValidationErrors
func validateAll(ctx context.Context, authors AuthorRepository, cmds []Command) error {
	var errs ValidationErrors
	for _, cmd := range cmds {
		err := cmd.validate(ctx, authors)
		if err == nil {
			continue
		}
		appErr, ok := apperrors.AsBusiness(err)
		if !ok {
			return err
		}
		errs = append(errs, FieldError{Field: cmd.Field(), Message: appErr.Message})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
