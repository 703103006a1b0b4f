package order

import (
	"fmt"
	"sort"
	"strings"
)

// Status 订单状态
// 使用字符串存储,数据库里直接可读,也和接口字段保持一致
type Status string

const (
	StatusNew      Status = "NEW"      // 新建(已预留库存)
	StatusAccepted Status = "ACCEPTED" // 已受理
	StatusSent     Status = "SENT"     // 已发出
	StatusCanceled Status = "CANCELED" // 已取消
)

// AllStatuses 全部已知状态
var AllStatuses = []Status{StatusNew, StatusAccepted, StatusSent, StatusCanceled}

// ParseStatus 解析请求中的状态值
// 空串 → ErrStatusRequired, 未知值 → ErrUnknownStatus
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if s == "" {
		return "", ErrStatusRequired
	}
	if !s.IsKnown() {
		return "", ErrUnknownStatus.WithMessage(fmt.Sprintf("未知的订单状态: %s", raw))
	}
	return s, nil
}

// IsKnown 是否为已知状态
func (s Status) IsKnown() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// StatusPolicy 状态流转策略
// 教学要点:
// 1. 合法的状态边由配置决定(order.transitions),代码里只保留默认值
// 2. 加载时校验:只能出现已知状态,任何边都不能指向NEW,CANCELED必须是终态
// 3. 不在表中的边一律非法,包括自环
type StatusPolicy struct {
	edges map[Status]map[Status]struct{}
}

// DefaultTransitions 默认状态流转
func DefaultTransitions() map[Status][]Status {
	return map[Status][]Status{
		StatusNew:      {StatusAccepted, StatusCanceled},
		StatusAccepted: {StatusSent, StatusCanceled},
		StatusSent:     {},
		StatusCanceled: {},
	}
}

// DefaultPolicy 默认策略
func DefaultPolicy() *StatusPolicy {
	p, err := NewStatusPolicy(DefaultTransitions())
	if err != nil {
		panic(err)
	}
	return p
}

// NewStatusPolicy 根据配置构建策略
func NewStatusPolicy(transitions map[Status][]Status) (*StatusPolicy, error) {
	edges := make(map[Status]map[Status]struct{}, len(transitions))

	for from, targets := range transitions {
		if !from.IsKnown() {
			return nil, fmt.Errorf("未知的订单状态: %s", from)
		}
		if from == StatusCanceled && len(targets) > 0 {
			return nil, fmt.Errorf("%s必须是终态", StatusCanceled)
		}

		set := make(map[Status]struct{}, len(targets))
		for _, to := range targets {
			if !to.IsKnown() {
				return nil, fmt.Errorf("未知的订单状态: %s", to)
			}
			if to == StatusNew {
				return nil, fmt.Errorf("不允许流转回%s: %s → %s", StatusNew, from, to)
			}
			set[to] = struct{}{}
		}
		edges[from] = set
	}

	return &StatusPolicy{edges: edges}, nil
}

// Allows 是否允许from → to
func (p *StatusPolicy) Allows(from, to Status) bool {
	_, ok := p.edges[from][to]
	return ok
}

// IsTerminal 是否终态(没有任何出边)
func (p *StatusPolicy) IsTerminal(s Status) bool {
	return len(p.edges[s]) == 0
}

// Targets 某状态允许的目标状态(排序后返回,便于错误提示)
func (p *StatusPolicy) Targets(from Status) []Status {
	out := make([]Status, 0, len(p.edges[from]))
	for to := range p.edges[from] {
		out = append(out, to)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
