package elder

import "fmt"

// PreludeSource is the standard library. Each entry is an ordinary top-level
// define with no special engine support; user code may shadow any of them.
const PreludeSource = `
(define not (lambda (b) (if b false true)))
(define and (lambda (a b) (if a b false)))
(define or (lambda (a b) (if a true b)))
(define null? (lambda (l) (eq? l ())))

(define <= (lambda (a b) (not (> a b))))
(define >= (lambda (a b) (not (< a b))))
(define = (lambda (a b) (not (or (< a b) (> a b)))))

(define map
  (lambda (f l)
    (if (null? l)
        ()
        (cons (f (car l)) (map f (cdr l))))))

(define foldr
  (lambda (f last l)
    (if (null? l)
        last
        (f (car l) (foldr f last (cdr l))))))

(define foldl
  (lambda (f acc l)
    (if (null? l)
        acc
        (foldl f (f acc (car l)) (cdr l)))))

(define filter
  (lambda (p l)
    (if (null? l)
        ()
        (if (p (car l))
            (cons (car l) (filter p (cdr l)))
            (filter p (cdr l))))))

(define length (lambda (l) (foldl (lambda (n x) (+ n 1)) 0 l)))
(define reverse (lambda (l) (foldl (lambda (acc x) (cons x acc)) () l)))
(define append
  (lambda (l r)
    (if (null? l)
        r
        (cons (car l) (append (cdr l) r)))))
`

// LoadPrelude evaluates the standard library into env.
func LoadPrelude(ev *Evaluator, env *Env) error {
	if _, _, err := ev.EvalString(env, PreludeSource); err != nil {
		return fmt.Errorf("load prelude: %w", err)
	}
	return nil
}

// NewPreludeEnv returns a fresh top-level env with the standard library loaded.
func NewPreludeEnv() *Env {
	env := NewEnv()
	if err := LoadPrelude(&Evaluator{}, env); err != nil {
		panic(err)
	}
	return env
}
