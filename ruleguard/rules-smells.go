package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

func smells(m dsl.Matcher) {
	// Two consecutive guards with the same return are mergeable with ||:
	//   if a { return err }
	//   if b { return err }
	// => if a || b { return err }
	m.Match(`if $c1 { return $ret }; if $c2 { return $ret }`).
		Report(`two consecutive guards return the same value; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { return $ret }`)

	// Same pattern with continue inside loops.
	m.Match(`if $c1 { continue }; if $c2 { continue }`).
		Report(`two consecutive continues; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { continue }`)

	// Nested for-loops are not always wrong but usually worth extracting.
	m.Match(`for $*_ { for $*_ { $*_ } }`).
		Report(`nested for-loop; consider extracting inner loop logic or reducing algorithmic complexity`)

	// fmt.Errorf without %w loses the error chain for errors.Is/As callers.
	m.Match(`fmt.Errorf($msg, $*_, $err)`).
		Where(m["err"].Type.Is(`error`) && !m["msg"].Text.Matches(`.*%w.*`)).
		Report(`wrapping an error without %w breaks errors.Is/As; consider %w`)
}
