package reconciler

import (
	"path"
	"sort"
)

// Report 对账结果
// Unused 为按字典序排序的未使用键，保证评审顺序稳定
type Report struct {
	Unused         []string
	ImageCount     int
	ReferenceCount int
	UnusedCount    int
}

// Reconcile 计算图片键集合与引用键集合的差集
// 纯函数，无副作用；输入集合不会被修改
func Reconcile(images map[string][]string, refs map[string]struct{}) *Report {
	report := &Report{
		ImageCount:     len(images),
		ReferenceCount: len(refs),
	}

	for key := range images {
		if _, used := refs[key]; used {
			continue
		}
		// show/scene 语句通常只写裸名字，相对键额外按文件名匹配一次
		if stem := path.Base(key); stem != key {
			if _, used := refs[stem]; used {
				continue
			}
		}
		report.Unused = append(report.Unused, key)
	}

	sort.Strings(report.Unused)
	report.UnusedCount = len(report.Unused)
	return report
}

// UnusedPaths 展开未使用键对应的全部文件路径，按字典序排序
func (r *Report) UnusedPaths(images map[string][]string) []string {
	var paths []string
	for _, key := range r.Unused {
		paths = append(paths, images[key]...)
	}
	sort.Strings(paths)
	return paths
}
