package compiler

// stepperModule is the debug coordination object emitted into the fixture
// index when debug mode is on. It speaks the line-oriented control protocol
// on the test process's stdio: outbound step:before / step:after /
// execution:paused / variable messages, inbound resume / step / stop /
// set-breakpoints. Before a step it cooperatively suspends when the current
// line is a breakpoint or single-step mode is active, resuming only on an
// external signal; stop terminates the process immediately.
func stepperModule() string {
	return `class VeroStepper {
  private breakpoints = new Set<number>();
  private stepMode = false;
  private pending: (() => void) | null = null;

  constructor() {
    if (process.env.VERO_BREAKPOINTS) {
      for (const part of process.env.VERO_BREAKPOINTS.split(',')) {
        const line = Number(part.trim());
        if (!Number.isNaN(line)) {
          this.breakpoints.add(line);
        }
      }
    }
    this.stepMode = process.env.VERO_STEP_MODE === '1';
    process.stdin.setEncoding('utf8');
    let buffered = '';
    process.stdin.on('data', (chunk: string) => {
      buffered += chunk;
      let idx = buffered.indexOf('\n');
      while (idx >= 0) {
        const raw = buffered.slice(0, idx).trim();
        buffered = buffered.slice(idx + 1);
        if (raw.length > 0) {
          this.handle(raw);
        }
        idx = buffered.indexOf('\n');
      }
    });
  }

  private handle(raw: string): void {
    let msg: { kind?: string; lines?: number[] };
    try {
      msg = JSON.parse(raw);
    } catch {
      return;
    }
    switch (msg.kind) {
      case 'resume':
        this.stepMode = false;
        this.release();
        break;
      case 'step':
        this.stepMode = true;
        this.release();
        break;
      case 'stop':
        process.exit(1);
        break;
      case 'set-breakpoints':
        this.breakpoints = new Set(msg.lines ?? []);
        break;
    }
  }

  private release(): void {
    const pending = this.pending;
    this.pending = null;
    if (pending) {
      pending();
    }
  }

  private send(kind: string, payload: Record<string, unknown>): void {
    process.stdout.write(JSON.stringify({ kind, ...payload }) + '\n');
  }

  async before(line: number, stmt: string, target: string): Promise<void> {
    this.send('step:before', { line, stmt, target });
    if (this.stepMode || this.breakpoints.has(line)) {
      this.send('execution:paused', { line });
      await new Promise<void>((resolve) => {
        this.pending = resolve;
      });
    }
  }

  async after(line: number, status: string, error?: string): Promise<void> {
    this.send('step:after', { line, status, error });
  }

  async variable(name: string, value: unknown): Promise<void> {
    this.send('variable', { name, value });
  }
}

export const __stepper = new VeroStepper();`
}
