package config

// MergeMaps 把 override 深合并到 base 上，返回新 map，两个入参都不会被修改。
// 两边同 key 且都是 map 时递归合并，否则 override 的值直接胜出。
func MergeMaps(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		if ov, ok := v.(map[string]any); ok {
			if bv, ok := out[k].(map[string]any); ok {
				out[k] = MergeMaps(bv, ov)
				continue
			}
		}
		out[k] = v
	}
	return out
}
